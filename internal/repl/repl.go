// Package repl implements the interactive read-eval-print loop.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"ember/internal/config"
	"ember/internal/interpreter"
	"ember/internal/session"
)

const prompt = ">> "

type REPL struct {
	cfg         config.Config
	in          io.Reader
	out         io.Writer
	logger      *slog.Logger
	interactive bool
	sess        *session.Session
	lines       int
}

func New(cfg config.Config, in io.Reader, out io.Writer, logger *slog.Logger) *REPL {
	r := &REPL{
		cfg:         cfg,
		in:          in,
		out:         out,
		logger:      logger,
		interactive: isTerminal(in),
	}
	r.reset()
	return r
}

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *REPL) reset() {
	r.sess = session.New(r.cfg, r.out, r.logger)
}

// Run reads lines until EOF or an exit command. Globals persist between
// lines; errors are printed and the loop keeps going.
func (r *REPL) Run() error {
	if r.interactive {
		fmt.Fprintln(r.out, "Ember REPL | type 'exit' to quit")
	}

	scanner := bufio.NewScanner(r.in)
	for {
		if r.interactive {
			fmt.Fprint(r.out, prompt)
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		r.lines++

		switch line {
		case "":
			continue
		case "exit", ":quit":
			return nil
		case ":env":
			r.printGlobals()
			continue
		case ":reset":
			r.reset()
			fmt.Fprintln(r.out, "environment cleared")
			continue
		}

		res := r.sess.Exec(fmt.Sprintf("<repl:%d>", r.lines), line)
		for _, err := range res.Errors() {
			fmt.Fprintln(r.out, err)
		}
	}
	return scanner.Err()
}

func (r *REPL) printGlobals() {
	globals := r.sess.Interpreter().Globals()
	names := globals.Names()
	if len(names) == 0 {
		fmt.Fprintln(r.out, "(no bindings)")
		return
	}
	for _, name := range names {
		v, _ := globals.Lookup(name)
		fmt.Fprintf(r.out, "%s = %s (%s)\n", name, quoted(v), interpreter.TypeName(v))
	}
}

func quoted(v interpreter.Value) string {
	if s, ok := v.(interpreter.String); ok {
		return fmt.Sprintf("%q", string(s))
	}
	return interpreter.Format(v)
}
