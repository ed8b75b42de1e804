// cmd/ember/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ember/cmd/ember/commands"
)

const VERSION = "0.1.0"

// Set with -ldflags at build time.
var GitCommit = "unknown"

func main() {
	log.SetFlags(0)
	log.SetPrefix("ember: ")

	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		os.Exit(commands.ExitUsage)
	}

	switch args[0] {
	case "-h", "--help", "help":
		showUsage()
		return
	case "-v", "--version", "version":
		fmt.Printf("ember %s (%s)\n", VERSION, GitCommit)
		return
	}

	cfg, rest, err := commands.ParseGlobal(args, os.Stderr)
	if err != nil {
		os.Exit(exitCode(err))
	}
	if len(rest) == 0 {
		showUsage()
		os.Exit(commands.ExitUsage)
	}
	env := &commands.Env{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Config: cfg,
		Logger: cfg.Logger(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = dispatch(ctx, env, rest[0], rest[1:])
	stop()
	os.Exit(exitCode(err))
}

func dispatch(ctx context.Context, env *commands.Env, name string, args []string) error {
	switch name {
	case "run":
		return commands.RunCommand(ctx, env, args)
	case "check":
		return commands.CheckCommand(ctx, env, args)
	case "ast":
		return commands.ASTCommand(env, args)
	case "repl":
		return commands.ReplCommand(env, args)
	case "serve":
		return commands.ServeCommand(ctx, env, args)
	case "journal":
		return commands.JournalCommand(ctx, env, args)
	}
	showUsage()
	return &commands.ExitError{Code: commands.ExitUsage, Err: fmt.Errorf("unknown command %q", name)}
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exit *commands.ExitError
	if errors.As(err, &exit) {
		if exit.Err != nil {
			log.Print(exit.Err)
		}
		return exit.Code
	}
	log.Print(err)
	return 1
}

func showUsage() {
	fmt.Fprint(os.Stderr, `Usage: ember [-config file] <command> [arguments]

Commands:
  run [-stats] [-journal] file...   execute files
  check file...                     parse files without running them
  ast [-sexpr] file                 print the syntax tree
  repl                              start an interactive session
  serve [-addr host:port]           serve sessions over websockets
  journal [-n N]                    list recorded runs
  version                           print the version

Configuration is read from -config or $EMBER_CONFIG, then EMBER_* variables.
`)
}
