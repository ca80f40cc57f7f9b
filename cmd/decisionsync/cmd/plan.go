package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/agentstation/decisionsync/pkg/errors"
	"github.com/agentstation/decisionsync/pkg/reconciler"
)

// NewPlanCommand creates the plan command.
func NewPlanCommand(app Application) *cobra.Command {
	var (
		pageID     string
		noPreserve bool
		format     string
	)

	planCmd := &cobra.Command{
		Use:   "plan <markdown-file>",
		Short: "Show what a sync would change, without writing",
		Long: `Plan runs the reconciliation and prints the classification of every
decision title (added, updated, unchanged, remote-only) without
touching the remote page.`,
		Example: `  decisionsync plan decisions.md
  decisionsync plan decisions.md --format json
  decisionsync plan decisions.md --no-preserve`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runPlan(c.Context(), app, args[0], pageID, noPreserve, format)
		},
	}

	planCmd.Flags().StringVar(&pageID, "page-id", "", "target page ID (overrides DECISIONSYNC_PAGE_ID)")
	planCmd.Flags().BoolVar(&noPreserve, "no-preserve", false, "plan as if remote-only decisions were dropped")
	planCmd.Flags().StringVarP(&format, "format", "o", "table", "output format: table, json, yaml")

	return planCmd
}

func runPlan(ctx context.Context, app Application, path, pageID string, noPreserve bool, format string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapIO("read", path, err)
	}

	syncer, err := app.Syncer(buildOptions(path, pageID, noPreserve)...)
	if err != nil {
		return err
	}

	result, err := syncer.Plan(ctx, source)
	if err != nil {
		return err
	}

	switch format {
	case "table", "":
		result.Plan.Print()
		for _, warning := range result.Warnings {
			fmt.Fprintf(os.Stderr, "⚠️  remote markup: %s\n", warning)
		}
		return nil
	case "json":
		encoded, err := json.MarshalIndent(planView(result.Plan), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
		return nil
	case "yaml":
		encoded, err := yaml.Marshal(planView(result.Plan))
		if err != nil {
			return err
		}
		fmt.Print(string(encoded))
		return nil
	default:
		return &errors.ValidationError{
			Field:   "format",
			Value:   format,
			Message: "must be table, json, or yaml",
		}
	}
}

// view is the serializable shape of a plan for json/yaml output.
type view struct {
	Added         []string     `json:"added" yaml:"added"`
	Updated       []updateView `json:"updated" yaml:"updated"`
	Unchanged     []string     `json:"unchanged" yaml:"unchanged"`
	RemoteKept    []string     `json:"remote_only_kept" yaml:"remote_only_kept"`
	RemoteDropped []string     `json:"remote_only_dropped" yaml:"remote_only_dropped"`
	Warnings      []string     `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	TotalChanges  int          `json:"total_changes" yaml:"total_changes"`
}

type updateView struct {
	Title          string `json:"title" yaml:"title"`
	OldFingerprint string `json:"old_fingerprint" yaml:"old_fingerprint"`
	NewFingerprint string `json:"new_fingerprint" yaml:"new_fingerprint"`
}

func planView(plan *reconciler.Plan) view {
	v := view{
		Added:         make([]string, 0, len(plan.Added)),
		Updated:       make([]updateView, 0, len(plan.Updated)),
		Unchanged:     make([]string, 0, len(plan.Unchanged)),
		RemoteKept:    make([]string, 0, len(plan.RemoteKept)),
		RemoteDropped: make([]string, 0, len(plan.RemoteDropped)),
		Warnings:      plan.Warnings,
		TotalChanges:  plan.Summary.TotalChanges,
	}
	for _, d := range plan.Added {
		v.Added = append(v.Added, d.Title)
	}
	for _, u := range plan.Updated {
		v.Updated = append(v.Updated, updateView{
			Title:          u.Title,
			OldFingerprint: u.OldFingerprint,
			NewFingerprint: u.NewFingerprint,
		})
	}
	for _, d := range plan.Unchanged {
		v.Unchanged = append(v.Unchanged, d.Title)
	}
	for _, d := range plan.RemoteKept {
		v.RemoteKept = append(v.RemoteKept, d.Title)
	}
	for _, d := range plan.RemoteDropped {
		v.RemoteDropped = append(v.RemoteDropped, d.Title)
	}
	return v
}
