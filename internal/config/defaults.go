package config

// Default returns a Config populated with the same defaults the loader
// applies. Used by `testforge init` to seed a project config file.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
		Project: ProjectConfig{
			Root:        ".",
			SourceDir:   "src",
			TestDir:     "tests",
			SourceGlobs: []string{"*.js", "*.ts"},
			TestSuffix:  ".spec.js",
		},
		Generator: GeneratorConfig{
			Provider:    "claude",
			MaxTokens:   8192,
			Temperature: 0.2,
			Timeout:     "5m",
			MaxRetries:  3,
			Parallel:    1,
			APIKeyEnv:   "GEMINI_API_KEY",
		},
		Merge: MergeConfig{
			GroupToken:      "test.describe(",
			FeatureKeywords: []string{"order", "user", "auth", "payment"},
		},
		Watch: WatchConfig{
			Debounce: "500ms",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    ".testforge/history.db",
		},
	}
}
