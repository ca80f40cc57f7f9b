// Package main provides the entry point for the decisionsync CLI tool.
package main

import (
	"context"
	"os"

	"github.com/agentstation/decisionsync/cmd/decisionsync/app"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	application, err := app.New(version, commit, date, builtBy)
	if err != nil {
		app.ExitOnError(err)
	}

	// Context cancels on SIGINT/SIGTERM so an in-flight page write can
	// be abandoned cleanly.
	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	if err := application.Execute(ctx, os.Args[1:]); err != nil {
		app.ExitOnError(err)
	}
}
