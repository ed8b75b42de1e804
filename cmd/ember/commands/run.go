// cmd/ember/commands/run.go
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"ember/internal/journal"
	"ember/internal/session"
)

// RunCommand executes each file in order against one set of globals and
// stops at the first file that fails.
func RunCommand(ctx context.Context, env *Env, args []string) error {
	fs := newFlagSet("run", env)
	showStats := fs.Bool("stats", false, "print execution statistics")
	record := fs.Bool("journal", false, "record each run in the journal")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return usageError("usage: ember run [-stats] [-journal] file...")
	}

	var j *journal.Journal
	if *record {
		var err error
		j, err = journal.Open(ctx, env.Config.Journal.Driver, env.Config.Journal.DSN)
		if err != nil {
			return err
		}
		defer j.Close()
	}

	sess := session.New(env.Config, env.Stdout, env.logger())
	for _, path := range fs.Args() {
		source, err := readSource(path)
		if err != nil {
			return err
		}

		res := sess.Exec(path, source)
		printErrors(env.Stderr, res.Errors())
		if *showStats {
			printStats(env.Stderr, res)
		}
		if j != nil {
			if err := j.Record(ctx, journal.EntryFrom(res)); err != nil {
				env.logger().Warn("journal write failed", "error", err)
			}
		}
		if err := exitFor(res.Status()); err != nil {
			return err
		}
	}
	return nil
}

func printStats(w io.Writer, res session.Result) {
	fmt.Fprintf(w, "%s: %s statements, %s expressions, scope depth %d, %s\n",
		res.Name,
		humanize.Comma(int64(res.Stats.Statements)),
		humanize.Comma(int64(res.Stats.Expressions)),
		res.Stats.MaxScopeDepth,
		res.Duration,
	)
}
