package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoader_Defaults(t *testing.T) {
	cfg, err := loadFromDir(t, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("log.level default = %q, want info", cfg.Log.Level)
	}
	if cfg.Generator.Provider != "claude" {
		t.Errorf("generator.provider default = %q, want claude", cfg.Generator.Provider)
	}
	if cfg.Generator.Parallel != 1 {
		t.Errorf("generator.parallel default = %d, want 1", cfg.Generator.Parallel)
	}
	if cfg.Merge.GroupToken != "test.describe(" {
		t.Errorf("merge.group_token default = %q", cfg.Merge.GroupToken)
	}
	if len(cfg.Merge.FeatureKeywords) != 4 {
		t.Errorf("merge.feature_keywords default = %v", cfg.Merge.FeatureKeywords)
	}
	if !cfg.History.Enabled {
		t.Errorf("history.enabled should default to true")
	}
}

func TestLoader_FileOverridesDefaults(t *testing.T) {
	cfg, err := loadFromDir(t, `
log:
  level: debug
generator:
  provider: gemini-api
  model: gemini-2.0-flash
merge:
  feature_keywords: [invoice, shipment]
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Generator.Provider != "gemini-api" {
		t.Errorf("generator.provider = %q", cfg.Generator.Provider)
	}
	if cfg.Generator.Model != "gemini-2.0-flash" {
		t.Errorf("generator.model = %q", cfg.Generator.Model)
	}
	if len(cfg.Merge.FeatureKeywords) != 2 || cfg.Merge.FeatureKeywords[0] != "invoice" {
		t.Errorf("merge.feature_keywords = %v", cfg.Merge.FeatureKeywords)
	}
	// Untouched sections keep their defaults.
	if cfg.Generator.MaxRetries != 3 {
		t.Errorf("generator.max_retries = %d, want default 3", cfg.Generator.MaxRetries)
	}
}

func TestLoader_EnvOverride(t *testing.T) {
	t.Setenv("TESTFORGE_LOG_LEVEL", "error")
	t.Setenv("TESTFORGE_GENERATOR_PROVIDER", "codex")

	cfg, err := loadFromDir(t, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("env override ignored: log.level = %q", cfg.Log.Level)
	}
	if cfg.Generator.Provider != "codex" {
		t.Errorf("env override ignored: generator.provider = %q", cfg.Generator.Provider)
	}
}

func TestGeneratorConfig_TimeoutDuration(t *testing.T) {
	g := GeneratorConfig{Timeout: "90s"}
	if got := g.TimeoutDuration().Seconds(); got != 90 {
		t.Errorf("TimeoutDuration = %vs, want 90s", got)
	}
	if (GeneratorConfig{}).TimeoutDuration() <= 0 {
		t.Errorf("unset timeout must fall back to a positive default")
	}
}

// loadFromDir writes an optional config file into a temp dir and loads
// from there.
func loadFromDir(t *testing.T, content string) (*Config, error) {
	t.Helper()
	dir := t.TempDir()
	loader := NewLoader()
	if content != "" {
		path := filepath.Join(dir, ".testforge.yaml")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing fixture config: %v", err)
		}
		loader = loader.WithConfigFile(path)
	}
	return loader.Load()
}
