package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/testforge/internal/history"
)

var (
	historyLimit int
	historyFile  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent generation runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum runs to show")
	historyCmd.Flags().StringVar(&historyFile, "file", "", "only show runs for this source file")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("history is disabled in configuration")
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var runs []history.Run
	if historyFile != "" {
		runs, err = store.ByFile(cmd.Context(), historyFile, historyLimit)
	} else {
		runs, err = store.Recent(cmd.Context(), historyLimit)
	}
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	for _, run := range runs {
		status := "ok"
		if run.Error != "" {
			status = "error: " + run.Error
		}
		fmt.Printf("%s  %-10s %-12s %-10s %6dms  %s  %s\n",
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Mode, run.MatchRule, run.Provider,
			run.Duration.Milliseconds(), run.File, status)
	}
	return nil
}
