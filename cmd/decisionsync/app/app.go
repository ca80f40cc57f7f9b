// Package app provides the application context and dependency wiring
// for the decisionsync CLI: configuration loading, logger setup, and
// construction of the syncer against the configured Confluence site.
package app

import (
	"github.com/rs/zerolog"

	decisionsync "github.com/agentstation/decisionsync"
	"github.com/agentstation/decisionsync/internal/confluence"
	"github.com/agentstation/decisionsync/pkg/errors"
)

// App represents the decisionsync application with its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "loading configuration", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Quiet reports whether minimal output was requested.
func (a *App) Quiet() bool {
	return a.config.Quiet
}

// Syncer builds a Syncer against the configured Confluence site.
// Options from the caller are applied after the config-derived ones,
// so command flags override environment and config file values.
func (a *App) Syncer(opts ...decisionsync.Option) (decisionsync.Syncer, error) {
	store, err := confluence.New(confluence.Config{
		BaseURL:  a.config.ConfluenceURL,
		Username: a.config.Username,
		APIToken: a.config.APIToken,
	})
	if err != nil {
		return nil, err
	}

	base := []decisionsync.Option{}
	if a.config.PageID != "" {
		base = append(base, decisionsync.WithPageID(a.config.PageID))
	}
	if a.config.PageTitle != "" {
		base = append(base, decisionsync.WithPageTitle(a.config.PageTitle))
	}
	base = append(base, decisionsync.WithLabel(a.config.Label))

	return decisionsync.New(store, append(base, opts...)...)
}
