// Package interpreter walks parsed statements and expressions against a
// chain of lexical scopes.
//
// An Interpreter is single-threaded: it owns its scope chain and must not be
// shared between goroutines. Run executes statements in order and stops at
// the first runtime error; output already written and assignments already
// made stay in effect. Globals survive across Run calls, which is what the
// REPL and the playground server rely on.
package interpreter

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"ember/internal/errors"
	"ember/internal/parser"
)

// DefaultMaxDepth bounds block nesting and expression depth at run time.
const DefaultMaxDepth = 512

// Stats counts work done since the interpreter was created or last reset.
type Stats struct {
	Statements    int
	Expressions   int
	MaxScopeDepth int
}

type Interpreter struct {
	globals   *Environment
	env       *Environment
	out       io.Writer
	logger    *slog.Logger
	maxDepth  int
	exprDepth int
	stats     Stats
}

type Option func(*Interpreter)

// WithOutput sets where print writes. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) { in.out = w }
}

// WithLogger sets the logger used for scope tracing at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(in *Interpreter) { in.logger = l }
}

// WithMaxDepth sets the block nesting and expression depth limit. Values below 1 keep the default.
func WithMaxDepth(n int) Option {
	return func(in *Interpreter) {
		if n > 0 {
			in.maxDepth = n
		}
	}
}

func New(opts ...Option) *Interpreter {
	globals := NewEnvironment(nil)
	in := &Interpreter{
		globals:  globals,
		env:      globals,
		out:      os.Stdout,
		logger:   slog.New(slog.DiscardHandler),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Run executes statements in order and returns the first runtime error.
func (in *Interpreter) Run(stmts []parser.Stmt) error {
	for _, stmt := range stmts {
		if err := in.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate computes a single expression in the current scope.
func (in *Interpreter) Evaluate(expr parser.Expr) (Value, error) {
	return in.evaluate(expr)
}

func (in *Interpreter) Globals() *Environment {
	return in.globals
}

func (in *Interpreter) Stats() Stats {
	return in.stats
}

func (in *Interpreter) ResetStats() {
	in.stats = Stats{}
}

func (in *Interpreter) execute(stmt parser.Stmt) error {
	in.stats.Statements++

	switch s := stmt.(type) {
	case *parser.ExpressionStmt:
		_, err := in.evaluate(s.Expr)
		return err

	case *parser.PrintStmt:
		v, err := in.evaluate(s.Expr)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(in.out, Format(v)); err != nil {
			return fmt.Errorf("print at line %d: %w", s.Keyword.Line, err)
		}
		return nil

	case *parser.LetStmt:
		// A declaration without an initializer binds nothing.
		if s.Initializer == nil {
			return nil
		}
		v, err := in.evaluate(s.Initializer)
		if err != nil {
			return err
		}
		in.env.Define(s.Name.Lexeme, v)
		return nil

	case *parser.BlockStmt:
		return in.executeBlock(s, NewEnvironment(in.env))

	case *parser.IfStmt:
		cond, err := in.evaluate(s.Condition)
		if err != nil {
			return err
		}
		if Truthy(cond) {
			return in.execute(s.Then)
		}
		if s.Else != nil {
			return in.execute(s.Else)
		}
		return nil
	}

	tok := stmt.Pos()
	return errors.NewRuntimeError(fmt.Sprintf("unsupported statement %T", stmt), tok.Line, tok.Lexeme)
}

// executeBlock runs the block body in env and always restores the previous
// scope, including when the body fails partway.
func (in *Interpreter) executeBlock(block *parser.BlockStmt, env *Environment) error {
	if env.Depth() > in.maxDepth {
		return errors.NewRuntimeError(fmt.Sprintf("blocks nested too deeply (limit %d)", in.maxDepth), block.Brace.Line, block.Brace.Lexeme)
	}

	previous := in.env
	in.env = env
	if env.Depth() > in.stats.MaxScopeDepth {
		in.stats.MaxScopeDepth = env.Depth()
	}
	in.logger.Debug("push scope", slog.Int("depth", env.Depth()), slog.Int("line", block.Brace.Line))
	defer func() {
		in.env = previous
		in.logger.Debug("pop scope", slog.Int("depth", env.Depth()))
	}()

	for _, stmt := range block.Statements {
		if err := in.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) evaluate(expr parser.Expr) (Value, error) {
	in.stats.Expressions++

	in.exprDepth++
	defer func() { in.exprDepth-- }()
	if in.exprDepth > in.maxDepth {
		tok := expr.Pos()
		return nil, errors.NewRuntimeError(fmt.Sprintf("expression nested too deeply (limit %d)", in.maxDepth), tok.Line, tok.Lexeme)
	}

	switch e := expr.(type) {
	case *parser.Literal:
		v, err := FromLiteral(e.Value)
		if err != nil {
			return nil, errors.NewRuntimeError(err.Error(), e.Token.Line, e.Token.Lexeme)
		}
		return v, nil

	case *parser.Grouping:
		return in.evaluate(e.Inner)

	case *parser.Unary:
		return in.unary(e)

	case *parser.Variable:
		return in.env.Get(e.Name)

	case *parser.Assign:
		v, err := in.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		if err := in.env.Assign(e.Name, v); err != nil {
			return nil, err
		}
		return v, nil

	case *parser.Logical:
		return in.logical(e)

	case *parser.Binary:
		return in.binary(e)
	}

	tok := expr.Pos()
	return nil, errors.NewRuntimeError(fmt.Sprintf("unsupported expression %T", expr), tok.Line, tok.Lexeme)
}
