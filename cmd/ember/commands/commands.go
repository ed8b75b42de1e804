// cmd/ember/commands/commands.go
package commands

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"ember/internal/config"
	"ember/internal/session"
)

// Exit statuses follow the sysexits convention.
const (
	ExitUsage   = 1
	ExitSyntax  = 65
	ExitRuntime = 70
)

// Env carries what every command needs from the process.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Config config.Config
	Logger *slog.Logger
}

// ExitError asks main to exit with Code. Err may be nil when the
// diagnostics have already been printed.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: ExitUsage, Err: fmt.Errorf(format, args...)}
}

func exitFor(status session.Status) error {
	switch status {
	case session.StatusSyntaxError:
		return &ExitError{Code: ExitSyntax}
	case session.StatusRuntimeError:
		return &ExitError{Code: ExitRuntime}
	}
	return nil
}

// ParseGlobal reads the flags that precede the subcommand, loads the
// configuration they name and returns the remaining arguments.
func ParseGlobal(args []string, stderr io.Writer) (config.Config, []string, error) {
	fs := flag.NewFlagSet("ember", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("config", "", "YAML config file (default $EMBER_CONFIG)")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, nil, &ExitError{Code: ExitUsage, Err: err}
	}

	cfg, err := config.Load(*path)
	if err != nil {
		return cfg, nil, &ExitError{Code: ExitUsage, Err: fmt.Errorf("config: %w", err)}
	}
	return cfg, fs.Args(), nil
}

func newFlagSet(name string, env *Env) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}
	return nil
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ExitError{Code: ExitUsage, Err: fmt.Errorf("could not read file: %w", err)}
	}
	return string(data), nil
}

func printErrors(w io.Writer, errs []error) {
	for _, err := range errs {
		fmt.Fprintf(w, "%v\n\n", err)
	}
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}
