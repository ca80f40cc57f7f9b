// Package decisionsync synchronizes a markdown decision log with a
// remote Confluence page. A sync run parses the local file, recovers
// the decisions already on the page from its own markup, reconciles
// the two sets by title, and writes the merged result back.
package decisionsync

import (
	"context"
	"fmt"
)

// Page is a remote page snapshot as seen by the page store.
type Page struct {
	ID      string
	Title   string
	Body    string
	Version int
	URL     string
}

// PageUpdate is the payload for a page write. BaseVersion is the
// version the caller read; the store rejects the write if the page has
// moved past it.
type PageUpdate struct {
	Title       string
	Body        string
	BaseVersion int
}

// PageStore is the remote page backend. Implementations must map
// version conflicts, auth failures, and missing pages to the
// corresponding typed errors in pkg/errors.
type PageStore interface {
	ReadPage(ctx context.Context, pageID string) (*Page, error)
	WritePage(ctx context.Context, pageID string, update *PageUpdate) (*Page, error)
	AddLabel(ctx context.Context, pageID, label string) error
}

// Syncer runs decision-log sync operations against one page store.
type Syncer interface {
	// Sync runs the full pipeline for one markdown document and returns
	// the run report. With the dry-run option set, no write happens.
	Sync(ctx context.Context, source []byte) (*Result, error)

	// Plan computes the reconciliation plan without writing.
	Plan(ctx context.Context, source []byte) (*Result, error)
}

// syncer is the internal implementation of the Syncer interface.
type syncer struct {
	store  PageStore
	config *config
}

// New creates a Syncer backed by the given page store.
func New(store PageStore, opts ...Option) (Syncer, error) {
	if store == nil {
		return nil, fmt.Errorf("page store is required")
	}

	s := &syncer{
		store:  store,
		config: defaultConfig(),
	}
	if err := s.options(opts...); err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}
	if s.config.pageID == "" {
		return nil, fmt.Errorf("page ID is required")
	}
	return s, nil
}

func (s *syncer) options(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(s.config); err != nil {
			return err
		}
	}
	return nil
}
