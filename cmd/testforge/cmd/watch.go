package cmd

import (
	"context"
	"errors"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/testforge/internal/service"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously regenerate tests as sources change",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := buildLogger(cfg)

	updater, cleanup, err := buildUpdater(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher := service.NewWatcher(updater, cfg.Watch.DebounceDuration(), logger)
	sourceDir := filepath.Join(cfg.Project.Root, cfg.Project.SourceDir)

	err = watcher.Run(ctx, sourceDir)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
