// Package main is the entry point for the nodeforge CLI.
//
// nodeforge provisions a single virtual machine on Hetzner Cloud from a
// declarative request: it resolves the flavor, image and network, starts
// the server, waits for it to become active, records every step in a task
// store and deletes the service again if anything fails.
//
// Commands: provision, tasks, exec, version.
//
// For detailed usage information, run:
//
//	nodeforge --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/nodeforge/cmd/nodeforge/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
