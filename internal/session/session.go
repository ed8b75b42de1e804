// Package session runs source text through the scanner, the parser and a
// long-lived interpreter, and reports what happened.
package session

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"ember/internal/config"
	embererrors "ember/internal/errors"
	"ember/internal/interpreter"
	"ember/internal/lexer"
	"ember/internal/parser"
)

type Status string

const (
	StatusOK           Status = "ok"
	StatusSyntaxError  Status = "syntax_error"
	StatusRuntimeError Status = "runtime_error"
)

// Result describes one Exec call.
type Result struct {
	RunID       uuid.UUID
	Name        string
	Source      string
	LexErrors   []error
	ParseErrors []error
	RuntimeErr  error
	Stats       interpreter.Stats
	StartedAt   time.Time
	Duration    time.Duration
}

func (r Result) Status() Status {
	switch {
	case len(r.LexErrors) > 0 || len(r.ParseErrors) > 0:
		return StatusSyntaxError
	case r.RuntimeErr != nil:
		return StatusRuntimeError
	}
	return StatusOK
}

// Errors lists every diagnostic in report order.
func (r Result) Errors() []error {
	errs := make([]error, 0, len(r.LexErrors)+len(r.ParseErrors)+1)
	errs = append(errs, r.LexErrors...)
	errs = append(errs, r.ParseErrors...)
	if r.RuntimeErr != nil {
		errs = append(errs, r.RuntimeErr)
	}
	return errs
}

// Err joins all diagnostics, or returns nil for a clean run.
func (r Result) Err() error {
	return errors.Join(r.Errors()...)
}

type Session struct {
	cfg    config.Config
	interp *interpreter.Interpreter
	logger *slog.Logger
}

func New(cfg config.Config, out io.Writer, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		cfg:    cfg,
		logger: logger,
		interp: interpreter.New(
			interpreter.WithOutput(out),
			interpreter.WithLogger(logger),
			interpreter.WithMaxDepth(cfg.MaxDepth),
		),
	}
}

// Interpreter exposes the session's interpreter, e.g. to inspect globals.
func (s *Session) Interpreter() *interpreter.Interpreter {
	return s.interp
}

// Check scans and parses source without executing it.
func Check(cfg config.Config, name, source string) ([]parser.Stmt, []error) {
	stmts, lexErrs, parseErrs, _ := parse(cfg, name, source)
	return stmts, append(lexErrs, parseErrs...)
}

func parse(cfg config.Config, name, source string) ([]parser.Stmt, []error, []error, []string) {
	lines := strings.Split(source, "\n")
	tokens, lexErrs := lexer.NewScannerWithFile(source, name).ScanTokens()
	p := parser.NewParser(tokens).WithMaxDepth(cfg.MaxDepth)
	stmts := p.Parse()

	embererrors.Annotate(lexErrs, name, lines)
	embererrors.Annotate(p.Errors, name, lines)
	return stmts, lexErrs, p.Errors, lines
}

// Exec runs source against the session's globals. Nothing executes when
// scanning or parsing reported errors.
func (s *Session) Exec(name, source string) Result {
	res := Result{
		RunID:     uuid.New(),
		Name:      name,
		Source:    source,
		StartedAt: time.Now(),
	}

	stmts, lexErrs, parseErrs, lines := parse(s.cfg, name, source)
	res.LexErrors = lexErrs
	res.ParseErrors = parseErrs

	if res.Status() == StatusOK {
		s.interp.ResetStats()
		if err := s.interp.Run(stmts); err != nil {
			embererrors.Annotate([]error{err}, name, lines)
			res.RuntimeErr = err
		}
		res.Stats = s.interp.Stats()
	}

	res.Duration = time.Since(res.StartedAt)
	s.logger.Info("run finished",
		slog.String("id", res.RunID.String()),
		slog.String("name", name),
		slog.String("status", string(res.Status())),
		slog.Int("statements", res.Stats.Statements),
		slog.Duration("duration", res.Duration),
	)
	return res
}
