package config

import "time"

// Config holds all application configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Project   ProjectConfig   `mapstructure:"project" yaml:"project"`
	Generator GeneratorConfig `mapstructure:"generator" yaml:"generator"`
	Merge     MergeConfig     `mapstructure:"merge" yaml:"merge"`
	Watch     WatchConfig     `mapstructure:"watch" yaml:"watch"`
	History   HistoryConfig   `mapstructure:"history" yaml:"history"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// ProjectConfig describes the companion codebase tests are generated for.
type ProjectConfig struct {
	Root        string   `mapstructure:"root" yaml:"root"`
	SourceDir   string   `mapstructure:"source_dir" yaml:"source_dir"`
	TestDir     string   `mapstructure:"test_dir" yaml:"test_dir"`
	SourceGlobs []string `mapstructure:"source_globs" yaml:"source_globs"`
	TestSuffix  string   `mapstructure:"test_suffix" yaml:"test_suffix"`
}

// GeneratorConfig configures the generation backend.
type GeneratorConfig struct {
	Provider    string  `mapstructure:"provider" yaml:"provider"`
	Path        string  `mapstructure:"path" yaml:"path"`
	Model       string  `mapstructure:"model" yaml:"model"`
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	Timeout     string  `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries  int     `mapstructure:"max_retries" yaml:"max_retries"`
	Parallel    int     `mapstructure:"parallel" yaml:"parallel"`
	APIKeyEnv   string  `mapstructure:"api_key_env" yaml:"api_key_env"`
}

// TimeoutDuration parses the configured timeout, falling back to five
// minutes when unset or unparseable.
func (g GeneratorConfig) TimeoutDuration() time.Duration {
	if d, err := time.ParseDuration(g.Timeout); err == nil && d > 0 {
		return d
	}
	return 5 * time.Minute
}

// MergeConfig configures the block partitioner.
type MergeConfig struct {
	GroupToken      string   `mapstructure:"group_token" yaml:"group_token"`
	FeatureKeywords []string `mapstructure:"feature_keywords" yaml:"feature_keywords"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce string `mapstructure:"debounce" yaml:"debounce"`
}

// DebounceDuration parses the configured debounce, defaulting to 500ms.
func (w WatchConfig) DebounceDuration() time.Duration {
	if d, err := time.ParseDuration(w.Debounce); err == nil && d > 0 {
		return d
	}
	return 500 * time.Millisecond
}

// HistoryConfig configures the run-history store.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}
