/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"os"

	"github.com/fulmenhq/supportsync/pkg/buildinfo"
	"github.com/fulmenhq/supportsync/pkg/exitcode"
	"github.com/fulmenhq/supportsync/pkg/logger"
	"github.com/spf13/cobra"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "supportsync",
		Short: "Keep an installer's supported version list in step with released manifests",
		Long: `Supportsync reads the SUPPORTED_VERSIONS_LIST declared in an installer script,
compares it with the release manifests published in a manifest repository and
adds every released MAJOR.MINOR line that is not yet declared.

Examples:
   supportsync check              # Clone manifests, update the list and stage it
   supportsync check --dry-run    # Report missing versions without writing
   supportsync version            # Show version`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initializeLogger(cmd)
		},
	}

	// Add global flags
	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().String("config", "", "Config file (default: supportsync.yaml in ., $HOME or $SUPPORTSYNC_HOME/config)")

	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("supportsync {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
// This is called from init() for production and can be called explicitly in tests.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newVersionCommand())
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if code := run(rootCmd); code != exitcode.Success {
		os.Exit(code)
	}
}

// run executes cmd and returns its exit code. The log is flushed after the
// failure has been reported.
func run(cmd *cobra.Command) int {
	code := exitcode.Success
	if err := cmd.Execute(); err != nil {
		code = exitCodeFor(err)
		logger.Error("Command execution failed", logger.Err(err), logger.String("exit", exitcode.String(code)))
	}
	logger.Sync()
	return code
}

func init() {
	registerSubcommands(rootCmd)
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) error {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")
	// Commands without --dry-run report false here.
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	config := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "supportsync",
		NoOp:      dryRun,
	}

	if err := logger.Initialize(config); err != nil {
		return exitcode.Wrap(exitcode.ConfigError, err)
	}
	return nil
}
