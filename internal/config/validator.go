package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation: %s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// KnownProviders are the generation backends the registry can construct.
var KnownProviders = []string{"claude", "gemini", "codex", "gemini-api"}

// Validator validates configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{errors: make(ValidationErrors, 0)}
}

// Validate validates the entire configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.validateLog(&cfg.Log)
	v.validateProject(&cfg.Project)
	v.validateGenerator(&cfg.Generator)
	v.validateMerge(&cfg.Merge)
	v.validateWatch(&cfg.Watch)

	if len(v.errors) > 0 {
		return v.errors
	}
	return nil
}

func (v *Validator) addError(field string, value interface{}, message string) {
	v.errors = append(v.errors, ValidationError{Field: field, Value: value, Message: message})
}

func (v *Validator) validateLog(cfg *LogConfig) {
	switch cfg.Level {
	case "debug", "info", "warn", "error":
	default:
		v.addError("log.level", cfg.Level, "must be one of debug, info, warn, error")
	}
	switch cfg.Format {
	case "auto", "text", "json":
	default:
		v.addError("log.format", cfg.Format, "must be one of auto, text, json")
	}
}

func (v *Validator) validateProject(cfg *ProjectConfig) {
	if cfg.SourceDir == "" {
		v.addError("project.source_dir", cfg.SourceDir, "must not be empty")
	}
	if cfg.TestDir == "" {
		v.addError("project.test_dir", cfg.TestDir, "must not be empty")
	}
	if !strings.HasPrefix(cfg.TestSuffix, ".") {
		v.addError("project.test_suffix", cfg.TestSuffix, "must start with a dot")
	}
}

func (v *Validator) validateGenerator(cfg *GeneratorConfig) {
	known := false
	for _, p := range KnownProviders {
		if cfg.Provider == p {
			known = true
			break
		}
	}
	if !known {
		v.addError("generator.provider", cfg.Provider,
			fmt.Sprintf("must be one of %s", strings.Join(KnownProviders, ", ")))
	}
	if cfg.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Timeout); err != nil || d <= 0 {
			v.addError("generator.timeout", cfg.Timeout, "must be a positive duration")
		}
	}
	if cfg.MaxRetries < 0 {
		v.addError("generator.max_retries", cfg.MaxRetries, "must not be negative")
	}
	if cfg.Parallel < 1 {
		v.addError("generator.parallel", cfg.Parallel, "must be at least 1")
	}
	if cfg.MaxTokens <= 0 {
		v.addError("generator.max_tokens", cfg.MaxTokens, "must be positive")
	}
}

func (v *Validator) validateMerge(cfg *MergeConfig) {
	if cfg.GroupToken == "" {
		v.addError("merge.group_token", cfg.GroupToken, "must not be empty")
	}
	if len(cfg.FeatureKeywords) == 0 {
		v.addError("merge.feature_keywords", cfg.FeatureKeywords, "must list at least one keyword")
	}
}

func (v *Validator) validateWatch(cfg *WatchConfig) {
	if cfg.Debounce != "" {
		if d, err := time.ParseDuration(cfg.Debounce); err != nil || d <= 0 {
			v.addError("watch.debounce", cfg.Debounce, "must be a positive duration")
		}
	}
}
