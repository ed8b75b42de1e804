// cmd/ember/commands/serve.go
package commands

import (
	"context"

	"ember/internal/repl"
	"ember/internal/server"
)

func ReplCommand(env *Env, args []string) error {
	fs := newFlagSet("repl", env)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	return repl.New(env.Config, env.Stdin, env.Stdout, env.logger()).Run()
}

// ServeCommand runs the websocket playground until ctx is cancelled.
func ServeCommand(ctx context.Context, env *Env, args []string) error {
	fs := newFlagSet("serve", env)
	addr := fs.String("addr", env.Config.Server.Addr, "listen address")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	cfg := env.Config
	cfg.Server.Addr = *addr
	return server.New(cfg, env.logger()).Serve(ctx)
}
