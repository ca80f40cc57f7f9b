// Package cmd implements the decisionsync CLI subcommands. Commands
// receive their dependencies through the Application interface so they
// stay testable without a live Confluence site.
package cmd

import (
	"github.com/rs/zerolog"

	decisionsync "github.com/agentstation/decisionsync"
)

// Application is the dependency surface commands need from the app.
type Application interface {
	Version() string
	Commit() string
	Date() string
	BuiltBy() string
	Logger() *zerolog.Logger
	Quiet() bool

	// Syncer builds a syncer against the configured page store; options
	// from command flags are applied last and win.
	Syncer(opts ...decisionsync.Option) (decisionsync.Syncer, error)
}
