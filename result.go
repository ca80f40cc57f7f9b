package decisionsync

import (
	"fmt"
	"time"

	"github.com/agentstation/decisionsync/pkg/reconciler"
	"github.com/agentstation/decisionsync/pkg/storage"
)

// Result is the report of one sync or plan run.
type Result struct {
	// Plan is the reconciliation outcome the run acted on.
	Plan *reconciler.Plan

	// Warnings collects the recoverable oddities met while parsing the
	// remote page body.
	Warnings []storage.Warning

	PageID        string
	PageURL       string
	PageTitle     string
	VersionBefore int
	VersionAfter  int

	// Wrote reports whether the page was actually written. False for
	// plan runs, dry runs, and runs where every title was unchanged.
	Wrote bool

	// DryRun reports whether the run was asked not to write.
	DryRun bool

	SyncedAt time.Time
}

// Summary returns the one-line run summary: the per-group counts plus
// the write outcome.
func (r *Result) Summary() string {
	s := r.Plan.String()
	switch {
	case r.Wrote:
		s += fmt.Sprintf("; wrote version %d", r.VersionAfter)
	case r.DryRun:
		s += "; dry run, nothing written"
	default:
		s += "; nothing to write"
	}
	if len(r.Warnings) > 0 {
		s += fmt.Sprintf(" (%d remote parse warnings)", len(r.Warnings))
	}
	return s
}
