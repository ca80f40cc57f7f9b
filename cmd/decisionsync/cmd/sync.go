package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	decisionsync "github.com/agentstation/decisionsync"
	"github.com/agentstation/decisionsync/pkg/errors"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand(app Application) *cobra.Command {
	var (
		pageID      string
		noPreserve  bool
		dryRun      bool
		autoApprove bool
		noHeader    bool
	)

	syncCmd := &cobra.Command{
		Use:   "sync <markdown-file>",
		Short: "Sync the decision log to the remote page",
		Long: `Sync parses the markdown decision log, reconciles it against the
decisions already on the Confluence page, and writes the merged result
back. Remote-only decisions are preserved unless --no-preserve is set.

Credentials come from CONFLUENCE_URL, CONFLUENCE_USERNAME, and
CONFLUENCE_API_TOKEN (environment, .env file, or config file).`,
		Example: `  decisionsync sync decisions.md                  # Sync to configured page
  decisionsync sync decisions.md --page-id 12345  # Explicit page
  decisionsync sync decisions.md --dry-run        # Preview, write nothing
  decisionsync sync decisions.md -y               # Skip confirmation`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runSync(c.Context(), app, args[0], syncFlags{
				pageID:      pageID,
				noPreserve:  noPreserve,
				dryRun:      dryRun,
				autoApprove: autoApprove,
				noHeader:    noHeader,
			})
		},
	}

	syncCmd.Flags().StringVar(&pageID, "page-id", "", "target page ID (overrides DECISIONSYNC_PAGE_ID)")
	syncCmd.Flags().BoolVar(&noPreserve, "no-preserve", false, "drop decisions that exist only on the remote page")
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute and print the plan without writing")
	syncCmd.Flags().BoolVarP(&autoApprove, "yes", "y", false, "write without asking for confirmation")
	syncCmd.Flags().BoolVar(&noHeader, "no-header", false, "render the bare decision list without the page header")

	return syncCmd
}

type syncFlags struct {
	pageID      string
	noPreserve  bool
	dryRun      bool
	autoApprove bool
	noHeader    bool
}

func runSync(ctx context.Context, app Application, path string, flags syncFlags) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapIO("read", path, err)
	}

	opts := buildOptions(path, flags.pageID, flags.noPreserve)
	if flags.noHeader {
		opts = append(opts, decisionsync.WithPageHeader(false))
	}
	if flags.dryRun {
		opts = append(opts, decisionsync.WithDryRun(true))
	}

	syncer, err := app.Syncer(opts...)
	if err != nil {
		return err
	}

	// Interactive runs preview the plan and ask before writing.
	if !flags.dryRun && !flags.autoApprove && stdinIsTerminal() {
		planned, err := syncer.Plan(ctx, source)
		if err != nil {
			return err
		}
		if !planned.Plan.HasChanges() {
			if !app.Quiet() {
				fmt.Fprintf(os.Stderr, "✅ Page is up to date - no changes needed\n")
			}
			return nil
		}
		planned.Plan.Print()
		confirmed, err := confirmWrite()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Sync cancelled")
			return nil
		}
	}

	result, err := syncer.Sync(ctx, source)
	if err != nil {
		return err
	}

	printResult(app, result)
	return nil
}

func printResult(app Application, result *decisionsync.Result) {
	if app.Quiet() {
		return
	}
	fmt.Fprintln(os.Stderr, result.Summary())
	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "⚠️  remote markup: %s\n", warning)
	}
	if result.Wrote && result.PageURL != "" {
		fmt.Fprintf(os.Stderr, "📄 %s\n", result.PageURL)
	}
}

// buildOptions assembles the syncer options shared by sync and plan.
func buildOptions(path, pageID string, noPreserve bool) []decisionsync.Option {
	opts := []decisionsync.Option{
		decisionsync.WithSourceName(path),
		decisionsync.WithPreserveRemote(!noPreserve),
	}
	if pageID != "" {
		opts = append(opts, decisionsync.WithPageID(pageID))
	}
	return opts
}

// confirmWrite asks the user to confirm writing the page.
func confirmWrite() (bool, error) {
	fmt.Printf("Write these changes to the page? (y/N): ")
	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		response = "n"
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}

// stdinIsTerminal reports whether stdin is attached to a terminal.
// Piped input never prompts.
func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
