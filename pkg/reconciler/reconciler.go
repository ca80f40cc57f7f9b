package reconciler

import (
	"fmt"

	"github.com/agentstation/decisionsync/pkg/decisions"
	"github.com/agentstation/decisionsync/pkg/errors"
)

// Options controls reconciliation behavior.
type Options struct {
	// PreserveRemote keeps decisions that exist only on the remote page,
	// appending them after the local ordering. When false they are
	// dropped from the merged output.
	PreserveRemote bool
}

// Reconcile classifies every title across the local and remote record
// sets and builds the merged output sequence. Matching is by normalized
// title; content comparison is by fingerprint. For matched titles the
// local record always wins, so local formatting and ordering never
// drift. Two distinct local titles collapsing to one normalized key is
// an AmbiguityError: proceeding would silently merge different
// decisions.
func Reconcile(local, remote []decisions.Decision, opts Options) (*Plan, error) {
	localByKey := make(map[string]*decisions.Decision, len(local))
	for i := range local {
		d := &local[i]
		key := d.Key()
		if prior, ok := localByKey[key]; ok {
			return nil, &errors.AmbiguityError{
				First:  prior.Title,
				Second: d.Title,
				Key:    key,
			}
		}
		localByKey[key] = d
	}

	plan := &Plan{}

	// Remote collisions are not fatal: the page was not authored here,
	// so the first record shadows the rest and the run continues.
	remoteByKey := make(map[string]*decisions.Decision, len(remote))
	remoteOrder := make([]string, 0, len(remote))
	for i := range remote {
		d := &remote[i]
		key := d.Key()
		if prior, ok := remoteByKey[key]; ok {
			plan.Warnings = append(plan.Warnings,
				fmt.Sprintf("remote decision %q shadowed by earlier %q (same normalized title)", d.Title, prior.Title))
			continue
		}
		remoteByKey[key] = d
		remoteOrder = append(remoteOrder, key)
	}

	for i := range local {
		d := local[i]
		remoteMatch, exists := remoteByKey[d.Key()]
		switch {
		case !exists:
			plan.Added = append(plan.Added, d)
		case decisions.ContentEqual(&d, remoteMatch):
			plan.Unchanged = append(plan.Unchanged, d)
		default:
			plan.Updated = append(plan.Updated, Update{
				Title:          d.Title,
				Local:          d,
				Remote:         *remoteMatch,
				OldFingerprint: remoteMatch.Fingerprint(),
				NewFingerprint: d.Fingerprint(),
			})
		}
		merged := d
		merged.Origin = decisions.OriginMerged
		plan.Merged = append(plan.Merged, merged)
	}

	for _, key := range remoteOrder {
		if _, exists := localByKey[key]; exists {
			continue
		}
		d := *remoteByKey[key]
		if opts.PreserveRemote {
			plan.RemoteKept = append(plan.RemoteKept, d)
			merged := d
			merged.Origin = decisions.OriginMerged
			plan.Merged = append(plan.Merged, merged)
		} else {
			plan.RemoteDropped = append(plan.RemoteDropped, d)
		}
	}

	plan.Summary = calculateSummary(plan)
	return plan, nil
}
