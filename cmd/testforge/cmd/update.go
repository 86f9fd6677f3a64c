package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/testforge/internal/adapters/git"
)

var updateBaseRef string

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update tests for git-changed source files",
	Long: `Discover changed source files through git (diff against a base ref plus
untracked files) and regenerate their test coverage in parallel.`,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateBaseRef, "base", "",
		"git ref to diff against (default: working tree vs HEAD)")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := buildLogger(cfg)

	gitClient, err := git.NewClient(cfg.Project.Root)
	if err != nil {
		return err
	}

	updater, cleanup, err := buildUpdater(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	results, err := updater.UpdateChanged(cmd.Context(), gitClient, updateBaseRef)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("nothing to update")
		return nil
	}

	for _, result := range results {
		printResult(result)
	}
	return nil
}
