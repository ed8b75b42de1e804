// cmd/ember/commands/ast.go
package commands

import (
	"fmt"

	"github.com/kr/pretty"

	"ember/internal/parser"
	"ember/internal/session"
)

// ASTCommand prints the syntax tree of a file, either as Go values or,
// with -sexpr, in prefix form.
func ASTCommand(env *Env, args []string) error {
	fs := newFlagSet("ast", env)
	sexpr := fs.Bool("sexpr", false, "print prefix form instead of the node structure")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usageError("usage: ember ast [-sexpr] file")
	}

	path := fs.Arg(0)
	source, err := readSource(path)
	if err != nil {
		return err
	}
	stmts, errs := session.Check(env.Config, path, source)
	if len(errs) > 0 {
		printErrors(env.Stderr, errs)
		return &ExitError{Code: ExitSyntax}
	}

	for _, stmt := range stmts {
		if *sexpr {
			fmt.Fprintln(env.Stdout, parser.Sprint(stmt))
		} else {
			pretty.Fprintf(env.Stdout, "%# v\n", stmt)
		}
	}
	return nil
}
