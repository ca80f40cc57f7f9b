// Package reconciler classifies local decisions against the remote
// page's recovered decisions and produces the merge plan that the sync
// run renders and writes.
package reconciler

import (
	"fmt"
	"strings"

	"github.com/agentstation/decisionsync/pkg/decisions"
)

// Update pairs the two sides of a content change for one title.
type Update struct {
	Title          string
	Local          decisions.Decision
	Remote         decisions.Decision
	OldFingerprint string
	NewFingerprint string
}

// Plan is the result of one reconciliation: the classified groups, the
// final merged ordering, and summary counts. The plan is pure data;
// producing it never touches the page store.
type Plan struct {
	Added         []decisions.Decision
	Updated       []Update
	Unchanged     []decisions.Decision
	RemoteKept    []decisions.Decision
	RemoteDropped []decisions.Decision

	// Merged is the full output sequence: local records in local order,
	// then kept remote-only records in their original remote order.
	Merged []decisions.Decision

	// Warnings notes remote records that were shadowed by an earlier
	// record with the same normalized title.
	Warnings []string

	Summary Summary
}

// Summary provides the per-group counts for a plan.
type Summary struct {
	Added         int
	Updated       int
	Unchanged     int
	RemoteKept    int
	RemoteDropped int
	// TotalChanges counts the classifications that alter the rendered
	// page: added, updated, and dropped. Unchanged and kept records
	// reproduce what the page already holds.
	TotalChanges int
}

func calculateSummary(p *Plan) Summary {
	added := len(p.Added)
	updated := len(p.Updated)
	dropped := len(p.RemoteDropped)
	return Summary{
		Added:         added,
		Updated:       updated,
		Unchanged:     len(p.Unchanged),
		RemoteKept:    len(p.RemoteKept),
		RemoteDropped: dropped,
		TotalChanges:  added + updated + dropped,
	}
}

// HasChanges returns true if applying the plan would change the page.
func (p *Plan) HasChanges() bool {
	return p.Summary.TotalChanges > 0
}

// String returns a one-line human-readable summary of the plan.
func (p *Plan) String() string {
	if !p.HasChanges() && p.Summary.RemoteKept == 0 {
		return fmt.Sprintf("No changes detected (%d unchanged)", p.Summary.Unchanged)
	}

	var parts []string
	if p.Summary.Added > 0 {
		parts = append(parts, fmt.Sprintf("%d added", p.Summary.Added))
	}
	if p.Summary.Updated > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", p.Summary.Updated))
	}
	parts = append(parts, fmt.Sprintf("%d unchanged", p.Summary.Unchanged))
	if p.Summary.RemoteKept > 0 {
		parts = append(parts, fmt.Sprintf("%d remote-only kept", p.Summary.RemoteKept))
	}
	if p.Summary.RemoteDropped > 0 {
		parts = append(parts, fmt.Sprintf("%d remote-only dropped", p.Summary.RemoteDropped))
	}
	return fmt.Sprintf("Plan: %s (%d changes)", strings.Join(parts, ", "), p.Summary.TotalChanges)
}

// Print outputs a detailed, human-readable view of the plan.
func (p *Plan) Print() {
	fmt.Println(p.String())

	if len(p.Added) > 0 {
		fmt.Printf("\n➕ Added (%d):\n", len(p.Added))
		for _, d := range p.Added {
			fmt.Printf("  • %s\n", d.Title)
		}
	}
	if len(p.Updated) > 0 {
		fmt.Printf("\n🔄 Updated (%d):\n", len(p.Updated))
		for _, u := range p.Updated {
			fmt.Printf("  • %s (%s → %s)\n", u.Title, shortFingerprint(u.OldFingerprint), shortFingerprint(u.NewFingerprint))
		}
	}
	if len(p.RemoteKept) > 0 {
		fmt.Printf("\n📌 Remote-only kept (%d):\n", len(p.RemoteKept))
		for _, d := range p.RemoteKept {
			fmt.Printf("  • %s\n", d.Title)
		}
	}
	if len(p.RemoteDropped) > 0 {
		fmt.Printf("\n➖ Remote-only dropped (%d):\n", len(p.RemoteDropped))
		for _, d := range p.RemoteDropped {
			fmt.Printf("  • %s\n", d.Title)
		}
	}
	for _, warning := range p.Warnings {
		fmt.Printf("\n⚠️  %s\n", warning)
	}
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
