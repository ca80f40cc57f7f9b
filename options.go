package decisionsync

import (
	"fmt"
)

// Option is a function that configures a Syncer instance.
type Option func(*config) error

type config struct {
	pageID         string
	sourceName     string
	preserveRemote bool
	dryRun         bool
	pageTitle      string
	pageIntro      string
	label          string
	header         bool
}

func defaultConfig() *config {
	return &config{
		sourceName:     "decisions.md",
		preserveRemote: true,
		pageTitle:      "Decision Log",
		pageIntro:      "Synchronized from the team decision log. Do not edit matched sections by hand; changes are overwritten on the next sync.",
		label:          "decision-log",
		header:         true,
	}
}

// WithPageID sets the target page identifier. Required.
func WithPageID(id string) Option {
	return func(c *config) error {
		if id == "" {
			return fmt.Errorf("page ID must not be empty")
		}
		c.pageID = id
		return nil
	}
}

// WithSourceName sets the local file name used in parse errors and
// logs. Purely diagnostic.
func WithSourceName(name string) Option {
	return func(c *config) error {
		c.sourceName = name
		return nil
	}
}

// WithPreserveRemote configures whether decisions present only on the
// remote page are kept (appended after the local ordering) or dropped.
// Defaults to keeping them.
func WithPreserveRemote(enabled bool) Option {
	return func(c *config) error {
		c.preserveRemote = enabled
		return nil
	}
}

// WithDryRun makes Sync compute and report the plan without writing.
func WithDryRun(enabled bool) Option {
	return func(c *config) error {
		c.dryRun = enabled
		return nil
	}
}

// WithPageTitle sets the h1 title rendered in the page header.
func WithPageTitle(title string) Option {
	return func(c *config) error {
		c.pageTitle = title
		return nil
	}
}

// WithPageIntro sets the intro paragraph rendered in the page header.
func WithPageIntro(intro string) Option {
	return func(c *config) error {
		c.pageIntro = intro
		return nil
	}
}

// WithLabel sets the label ensured on the page after a successful
// write. An empty label disables labeling.
func WithLabel(label string) Option {
	return func(c *config) error {
		c.label = label
		return nil
	}
}

// WithPageHeader configures whether the rendered body carries the page
// header (title, intro, last-synchronized line, summary) before the
// first decision.
func WithPageHeader(enabled bool) Option {
	return func(c *config) error {
		c.header = enabled
		return nil
	}
}
