package decisionsync

import (
	"context"
	"fmt"
	"time"

	"github.com/agentstation/decisionsync/pkg/decisions"
	"github.com/agentstation/decisionsync/pkg/logging"
	"github.com/agentstation/decisionsync/pkg/markdown"
	"github.com/agentstation/decisionsync/pkg/reconciler"
	"github.com/agentstation/decisionsync/pkg/storage"
)

// Sync runs the full pipeline: parse local, read and parse remote,
// reconcile, render, write. All fatal errors surface before the write;
// a run never leaves the page partially synced.
func (s *syncer) Sync(ctx context.Context, source []byte) (*Result, error) {
	return s.run(ctx, source, s.config.dryRun)
}

// Plan computes the reconciliation plan without writing.
func (s *syncer) Plan(ctx context.Context, source []byte) (*Result, error) {
	return s.run(ctx, source, true)
}

func (s *syncer) run(ctx context.Context, source []byte, dryRun bool) (*Result, error) {
	ctx = logging.WithPage(ctx, s.config.pageID)
	logger := logging.Ctx(ctx)

	// Step 1: parse the local markdown into decision records.
	local, err := markdown.Parse(source, s.config.sourceName)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Int("decisions", len(local)).
		Str("source", s.config.sourceName).
		Msg("Parsed local decision log")

	// Step 2: read the remote page.
	page, err := s.store.ReadPage(ctx, s.config.pageID)
	if err != nil {
		return nil, err
	}

	// Step 3: recover the remote decision records from the page's own
	// markup. Warnings are collected, never fatal.
	remote, warnings, err := storage.Parse(page.Body)
	if err != nil {
		return nil, err
	}
	for _, warning := range warnings {
		logger.Warn().
			Str("warning", warning.String()).
			Msg("Remote page markup oddity")
	}

	// Step 4: reconcile.
	plan, err := reconciler.Reconcile(local, remote, reconciler.Options{
		PreserveRemote: s.config.preserveRemote,
	})
	if err != nil {
		return nil, err
	}
	logger.Info().
		Int("added", plan.Summary.Added).
		Int("updated", plan.Summary.Updated).
		Int("unchanged", plan.Summary.Unchanged).
		Int("remote_kept", plan.Summary.RemoteKept).
		Int("remote_dropped", plan.Summary.RemoteDropped).
		Msg("Reconciled decision sets")

	result := &Result{
		Plan:          plan,
		Warnings:      warnings,
		PageID:        page.ID,
		PageURL:       page.URL,
		PageTitle:     page.Title,
		VersionBefore: page.Version,
		VersionAfter:  page.Version,
		DryRun:        dryRun,
	}

	if dryRun || !plan.HasChanges() {
		return result, nil
	}

	// Step 5: render and write. The page title is left as-is; only the
	// body is replaced.
	result.SyncedAt = time.Now().UTC()
	written, err := s.store.WritePage(ctx, s.config.pageID, &PageUpdate{
		Title:       page.Title,
		Body:        s.render(plan, result.SyncedAt),
		BaseVersion: page.Version,
	})
	if err != nil {
		return nil, err
	}
	result.Wrote = true
	result.VersionAfter = written.Version
	if written.URL != "" {
		result.PageURL = written.URL
	}
	logger.Info().
		Int("version", written.Version).
		Msg("Wrote remote page")

	// Step 6: ensure the page label. Labeling is cosmetic; a failure is
	// a warning, not a failed sync.
	if s.config.label != "" {
		if err := s.store.AddLabel(ctx, s.config.pageID, s.config.label); err != nil {
			logger.Warn().
				Err(err).
				Str("label", s.config.label).
				Msg("Failed to add page label")
		}
	}

	return result, nil
}

func (s *syncer) render(plan *reconciler.Plan, syncedAt time.Time) string {
	if !s.config.header {
		return storage.Render(plan.Merged)
	}
	return storage.RenderPage(plan.Merged, &storage.Header{
		Title:    s.config.pageTitle,
		Intro:    s.config.pageIntro,
		SyncedAt: syncedAt,
		Summary:  headerSummary(plan.Merged, plan.Summary.RemoteKept),
	})
}

func headerSummary(merged []decisions.Decision, kept int) string {
	s := fmt.Sprintf("%d decisions on record", len(merged))
	if kept > 0 {
		s += fmt.Sprintf(", %d preserved from this page only", kept)
	}
	return s + "."
}
