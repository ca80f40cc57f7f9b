package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/decisionsync/cmd/decisionsync/cmd"
	"github.com/agentstation/decisionsync/pkg/errors"
)

// Execute runs the decisionsync CLI application with the given
// arguments. This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "decisionsync",
		Short:   "Sync a markdown decision log to Confluence",
		Version: a.version,
		Long: `Decisionsync keeps a Confluence page in step with a markdown decision
log. Each "## " heading in the log is one decision; [[Name]] tokens on
the lines under the heading are its participants.

A sync run parses the local file, recovers the decisions already on the
page from its own markup, reconciles the two sets by title, and writes
the merged result back. Decisions that exist only on the page are
preserved by default.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.decisionsync.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("decisionsync {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(c *cobra.Command, _ []string) error {
	verbose := mustGetBool(c, "verbose")
	quiet := mustGetBool(c, "quiet")
	noColor := mustGetBool(c, "no-color")
	logLevel := mustGetString(c, "log-level")

	a.config.UpdateFromFlags(verbose, quiet, noColor, logLevel)

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(cmd.NewSyncCommand(a))
	rootCmd.AddCommand(cmd.NewPlanCommand(a))
	rootCmd.AddCommand(cmd.NewVersionCommand(a))
}

// ExitOnError prints an error and exits with the status matching the
// error class: 2 for parse and ambiguity failures, 3 for page-store
// failures, 1 for anything else.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
	os.Exit(ExitCode(err))
}

// ExitCode maps an error to the CLI exit status.
func ExitCode(err error) int {
	var apiErr *errors.APIError
	switch {
	case err == nil:
		return 0
	case errors.IsParseError(err), errors.IsAmbiguous(err):
		return 2
	case errors.IsConflict(err),
		errors.IsAuthentication(err),
		errors.IsNotFound(err),
		errors.As(err, &apiErr):
		return 3
	default:
		return 1
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag
// doesn't exist. Only for flags defined in this package.
func mustGetBool(c *cobra.Command, name string) bool {
	val, err := c.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag
// doesn't exist. Only for flags defined in this package.
func mustGetString(c *cobra.Command, name string) string {
	val, err := c.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
