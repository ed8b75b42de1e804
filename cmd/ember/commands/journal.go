// cmd/ember/commands/journal.go
package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"ember/internal/journal"
)

// JournalCommand lists the most recent recorded runs.
func JournalCommand(ctx context.Context, env *Env, args []string) error {
	fs := newFlagSet("journal", env)
	limit := fs.Int("n", 20, "number of runs to show")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	j, err := journal.Open(ctx, env.Config.Journal.Driver, env.Config.Journal.DSN)
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.Recent(ctx, *limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(env.Stdout, "no runs recorded")
		return nil
	}

	tw := tabwriter.NewWriter(env.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tSTATEMENTS\tDURATION\tSTARTED")
	for _, e := range entries {
		id := e.ID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			id, e.Name, e.Status,
			humanize.Comma(int64(e.Statements)),
			e.Duration,
			humanize.Time(e.StartedAt),
		)
	}
	return tw.Flush()
}
