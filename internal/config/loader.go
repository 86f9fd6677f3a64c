package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configFile string
	envPrefix  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		v:         viper.New(),
		envPrefix: "TESTFORGE",
	}
}

// NewLoaderWithViper creates a loader using an existing viper instance.
// This allows integration with CLI flag bindings.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{
		v:         v,
		envPrefix: "TESTFORGE",
	}
}

// WithConfigFile sets an explicit config file path.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// Viper returns the underlying viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load loads configuration from all sources.
// Precedence (highest to lowest):
// 1. CLI flags (set via viper.BindPFlag)
// 2. Environment variables (TESTFORGE_*)
// 3. Project config (.testforge.yaml in current directory)
// 4. User config (~/.config/testforge/config.yaml)
// 5. Defaults
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	l.v.SetEnvPrefix(l.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	} else {
		l.v.SetConfigName(".testforge")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(home, ".config", "testforge"))
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values.
func (l *Loader) setDefaults() {
	l.v.SetDefault("log.level", "info")
	l.v.SetDefault("log.format", "auto")

	l.v.SetDefault("project.root", ".")
	l.v.SetDefault("project.source_dir", "src")
	l.v.SetDefault("project.test_dir", "tests")
	l.v.SetDefault("project.source_globs", []string{"*.js", "*.ts"})
	l.v.SetDefault("project.test_suffix", ".spec.js")

	l.v.SetDefault("generator.provider", "claude")
	l.v.SetDefault("generator.max_tokens", 8192)
	l.v.SetDefault("generator.temperature", 0.2)
	l.v.SetDefault("generator.timeout", "5m")
	l.v.SetDefault("generator.max_retries", 3)
	l.v.SetDefault("generator.parallel", 1)
	l.v.SetDefault("generator.api_key_env", "GEMINI_API_KEY")

	l.v.SetDefault("merge.group_token", "test.describe(")
	l.v.SetDefault("merge.feature_keywords", []string{"order", "user", "auth", "payment"})

	l.v.SetDefault("watch.debounce", "500ms")

	l.v.SetDefault("history.enabled", true)
	l.v.SetDefault("history.path", ".testforge/history.db")
}
