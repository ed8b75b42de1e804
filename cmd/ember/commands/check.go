// cmd/ember/commands/check.go
package commands

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"ember/internal/session"
)

// CheckCommand parses every file concurrently without running anything
// and reports diagnostics in argument order.
func CheckCommand(ctx context.Context, env *Env, args []string) error {
	fs := newFlagSet("check", env)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		return usageError("usage: ember check file...")
	}

	results := make([][]error, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			source, err := readSource(path)
			if err != nil {
				return err
			}
			_, results[i] = session.Check(env.Config, path, source)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for i, errs := range results {
		if len(errs) == 0 {
			fmt.Fprintf(env.Stdout, "%s: ok\n", paths[i])
			continue
		}
		failed++
		printErrors(env.Stderr, errs)
	}
	if failed > 0 {
		return &ExitError{Code: ExitSyntax, Err: fmt.Errorf("%d of %d files have errors", failed, len(paths))}
	}
	return nil
}
