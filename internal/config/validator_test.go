package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "auto"},
		Project: ProjectConfig{
			Root:       ".",
			SourceDir:  "src",
			TestDir:    "tests",
			TestSuffix: ".spec.js",
		},
		Generator: GeneratorConfig{
			Provider:   "claude",
			MaxTokens:  8192,
			Timeout:    "5m",
			MaxRetries: 3,
			Parallel:   2,
		},
		Merge: MergeConfig{
			GroupToken:      "test.describe(",
			FeatureKeywords: []string{"order"},
		},
		Watch:   WatchConfig{Debounce: "500ms"},
		History: HistoryConfig{Enabled: true, Path: ".testforge/history.db"},
	}
}

func TestValidator_ValidConfig(t *testing.T) {
	if err := NewValidator().Validate(validConfig()); err != nil {
		t.Fatalf("expected valid config, got: %v", err)
	}
}

func TestValidator_Errors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"unknown provider", func(c *Config) { c.Generator.Provider = "gpt9" }, "generator.provider"},
		{"bad timeout", func(c *Config) { c.Generator.Timeout = "soon" }, "generator.timeout"},
		{"negative retries", func(c *Config) { c.Generator.MaxRetries = -1 }, "generator.max_retries"},
		{"zero parallel", func(c *Config) { c.Generator.Parallel = 0 }, "generator.parallel"},
		{"empty token", func(c *Config) { c.Merge.GroupToken = "" }, "merge.group_token"},
		{"no keywords", func(c *Config) { c.Merge.FeatureKeywords = nil }, "merge.feature_keywords"},
		{"bad suffix", func(c *Config) { c.Project.TestSuffix = "spec.js" }, "project.test_suffix"},
		{"bad debounce", func(c *Config) { c.Watch.Debounce = "-1s" }, "watch.debounce"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := NewValidator().Validate(cfg)
			if err == nil {
				t.Fatalf("expected validation error for %s", tc.field)
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Fatalf("error should name field %s, got: %v", tc.field, err)
			}
		})
	}
}

func TestValidator_CollectsMultipleErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "nope"
	cfg.Generator.Provider = "nope"

	err := NewValidator().Validate(cfg)
	if err == nil {
		t.Fatalf("expected errors")
	}
	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(verrs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(verrs), verrs)
	}
}
