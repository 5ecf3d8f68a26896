package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/glimmerlab/browserbox-ctl/internal/logging"
)

var (
	verbose    bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "browserbox-ctl",
	Short: "Readiness verification for the browserbox container",
	Long: `browserbox-ctl verifies that a browserbox container (a headless
Chromium behind a virtual display with a DevTools protocol endpoint and a
noVNC web bridge) has reached a fully operational state.

A verification run starts the container, waits for its composite health
signal, probes each subsystem independently, and reports pass/fail per
capability with an exit code usable by CI.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, os.Stderr)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
)
