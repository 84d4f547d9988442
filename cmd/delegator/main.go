// Package main is the entry point for the delegator terminal demo.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "delegator",
		Usage:   "event delegation over a terminal element tree",
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Flags:   commonFlags(),
		Action:  runAction,
		Commands: []*cli.Command{
			Run(),
			Check(),
		},
	}
}
