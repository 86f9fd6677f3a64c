package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hugo-lorenzo-mato/testforge/internal/adapters/cli"
	"github.com/hugo-lorenzo-mato/testforge/internal/adapters/gemini"
	"github.com/hugo-lorenzo-mato/testforge/internal/config"
	"github.com/hugo-lorenzo-mato/testforge/internal/core"
	"github.com/hugo-lorenzo-mato/testforge/internal/diagnostics"
	"github.com/hugo-lorenzo-mato/testforge/internal/history"
	"github.com/hugo-lorenzo-mato/testforge/internal/logging"
	"github.com/hugo-lorenzo-mato/testforge/internal/service"
)

// loadConfig loads and validates configuration with flag bindings applied.
func loadConfig() (*config.Config, error) {
	loader := config.NewLoader()
	if cfgFile != "" {
		loader.WithConfigFile(cfgFile)
	}

	v := loader.Viper()
	_ = v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	// The provider flag has no default; binding it would shadow the
	// configured provider with an empty string.
	if provider != "" {
		v.Set("generator.provider", provider)
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	if err := config.NewValidator().Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildLogger creates the application logger from config.
func buildLogger(cfg *config.Config) *logging.Logger {
	return logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

// buildGenerator constructs the configured provider.
func buildGenerator(ctx context.Context, cfg *config.Config, logger *logging.Logger) (core.Generator, error) {
	name := cfg.Generator.Provider

	if name == "gemini-api" {
		apiKey := os.Getenv(cfg.Generator.APIKeyEnv)
		return gemini.New(ctx, apiKey, cfg.Generator.Model, logger)
	}

	registry := cli.NewRegistry()
	registry.Configure(name, cli.ProviderConfig{
		Name:    name,
		Path:    cfg.Generator.Path,
		Model:   cfg.Generator.Model,
		Timeout: cfg.Generator.TimeoutDuration(),
		WorkDir: cfg.Project.Root,
	})

	gen, err := registry.Get(name)
	if err != nil {
		return nil, err
	}

	// CLI providers spawn subprocesses; gate them on a resource check.
	type preflightable interface {
		WithPreflight(*diagnostics.Preflight)
	}
	if p, ok := gen.(preflightable); ok {
		p.WithPreflight(diagnostics.NewPreflight())
	}
	return gen, nil
}

// buildUpdater wires the full update pipeline. The returned cleanup closes
// the history store.
func buildUpdater(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*service.Updater, func(), error) {
	gen, err := buildGenerator(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var store *history.Store
	cleanup := func() {}
	if cfg.History.Enabled {
		path := cfg.History.Path
		if path == "" {
			path = filepath.Join(".testforge", "history.db")
		}
		store, err = history.Open(path)
		if err != nil {
			// History is an audit convenience, not a prerequisite.
			logger.Warn("history store unavailable", "path", path, "error", err)
		} else {
			cleanup = func() { _ = store.Close() }
		}
	}

	updater, err := service.NewUpdater(*cfg, gen, store, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	updater.DryRun = dryRun
	return updater, cleanup, nil
}

// printResult writes a one-line summary per updated file, or the full
// content in dry-run mode.
func printResult(result *service.UpdateResult) {
	if result == nil {
		return
	}
	if dryRun {
		fmt.Printf("--- %s (%s, %s)\n%s\n", result.TestPath, result.Mode, result.MatchRule, result.Content)
		return
	}
	fmt.Printf("%-10s %-12s %s\n", result.Mode, result.MatchRule, result.TestPath)
}
