package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	dryRun    bool
	provider  string

	// Version info - set via SetVersion()
	appVersion string
	appCommit  string
	appDate    string
)

var rootCmd = &cobra.Command{
	Use:   "testforge",
	Short: "AI-driven test file generator with incremental block merging",
	Long: `testforge generates end-to-end test files from source code through an AI
provider, and keeps them up to date incrementally: when a source file
changes, only the test block covering it is regenerated and spliced back
into the existing file. Hand-maintained sections marked with manual-zone
comments survive regeneration verbatim.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion injects build-time version information.
func SetVersion(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: .testforge.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "auto",
		"log format (auto, text, json)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false,
		"print generated content without writing files")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "",
		"generation provider (claude, gemini, codex, gemini-api)")
}
