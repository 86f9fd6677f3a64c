// Package cli adapts AI coding CLIs (claude, gemini, codex) to the
// Generator port. Each adapter shells out to the installed CLI in
// non-interactive mode and returns the raw generated text.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/testforge/internal/core"
	"github.com/hugo-lorenzo-mato/testforge/internal/diagnostics"
	"github.com/hugo-lorenzo-mato/testforge/internal/logging"
)

// ProviderConfig holds adapter configuration.
//
// Provider names are aliases - the Name field can be any identifier. The
// actual CLI invoked is determined by the Path field or the factory used.
type ProviderConfig struct {
	Name    string
	Path    string
	Model   string
	Timeout time.Duration
	WorkDir string
	// ExtraEnv holds additional environment variables applied on top of
	// the current process environment.
	ExtraEnv map[string]string
}

// BaseAdapter provides common CLI execution functionality.
type BaseAdapter struct {
	config    ProviderConfig
	logger    *logging.Logger
	preflight *diagnostics.Preflight
}

// NewBaseAdapter creates a new base adapter.
func NewBaseAdapter(cfg ProviderConfig, logger *logging.Logger) *BaseAdapter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &BaseAdapter{
		config: cfg,
		logger: logger,
	}
}

// WithPreflight configures a resource check run before each command.
func (b *BaseAdapter) WithPreflight(p *diagnostics.Preflight) {
	b.preflight = p
}

// Config returns the adapter configuration.
func (b *BaseAdapter) Config() ProviderConfig {
	return b.config
}

// CommandResult holds the result of a CLI execution.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// ExecuteCommand runs a CLI command with the given options. The optTimeout
// parameter overrides the default timeout; pass 0 to use the config default.
func (b *BaseAdapter) ExecuteCommand(ctx context.Context, args []string, stdin, workDir string, optTimeout time.Duration) (*CommandResult, error) {
	timeout := optTimeout
	if timeout == 0 {
		timeout = b.config.Timeout
	}
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if b.preflight != nil {
		check := b.preflight.Run()
		if !check.OK {
			return nil, core.ErrExecution("PREFLIGHT_FAILED",
				fmt.Sprintf("preflight check failed: %v", check.Errors))
		}
		for _, w := range check.Warnings {
			b.logger.Warn("preflight warning before command execution",
				"warning", w,
				"provider", b.config.Name,
			)
		}
	}

	cmdPath := b.config.Path
	if cmdPath == "" {
		return nil, core.ErrValidation("NO_PATH", "provider path not configured")
	}

	// Handle multi-word commands (e.g., "npx gemini")
	cmdParts := strings.Fields(cmdPath)
	if len(cmdParts) > 1 {
		cmdPath = cmdParts[0]
		args = append(cmdParts[1:], args...)
	}

	// #nosec G204 -- command path and args come from validated config
	cmd := exec.CommandContext(ctx, cmdPath, args...)
	if workDir != "" {
		cmd.Dir = workDir
	} else if b.config.WorkDir != "" {
		cmd.Dir = b.config.WorkDir
	}

	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, "TESTFORGE_MANAGED=true", fmt.Sprintf("TESTFORGE_PROVIDER=%s", b.config.Name))
	for k, v := range b.config.ExtraEnv {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	b.logger.Info("cli: executing command",
		"provider", b.config.Name,
		"path", cmdPath,
		"args", args,
		"work_dir", cmd.Dir,
		"stdin_length", len(stdin),
		"timeout", timeout,
	)

	startTime := time.Now()
	err := cmd.Run()
	duration := time.Since(startTime)

	result := &CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: duration,
	}

	truncateForLog := func(s string, maxLen int) string {
		if len(s) > maxLen {
			return s[:maxLen] + "... [truncated]"
		}
		return s
	}

	if ctx.Err() == context.DeadlineExceeded {
		b.logger.Error("cli: command timeout",
			"provider", b.config.Name,
			"path", cmdPath,
			"duration", duration,
			"timeout", timeout,
			"stderr_preview", truncateForLog(result.Stderr, 1000),
		)
		return result, core.ErrTimeout(fmt.Sprintf("command timed out after %v", timeout))
	}
	if ctx.Err() == context.Canceled {
		b.logger.Info("cli: command cancelled",
			"provider", b.config.Name,
			"path", cmdPath,
			"duration", duration,
		)
		return result, core.ErrExecution("CANCELLED", "run cancelled")
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			b.logger.Error("cli: command failed",
				"provider", b.config.Name,
				"path", cmdPath,
				"exit_code", result.ExitCode,
				"duration", duration,
				"stderr", truncateForLog(result.Stderr, 2000),
			)
			return result, b.classifyError(result)
		}
		b.logger.Error("cli: command execution error",
			"provider", b.config.Name,
			"path", cmdPath,
			"error", err,
			"duration", duration,
		)
		return result, fmt.Errorf("executing command: %w", err)
	}

	b.logger.Info("cli: command completed",
		"provider", b.config.Name,
		"path", cmdPath,
		"duration", duration,
		"stdout_length", len(result.Stdout),
	)

	result.ExitCode = 0
	return result, nil
}

// classifyError maps CLI failures to domain errors.
func (b *BaseAdapter) classifyError(result *CommandResult) error {
	errorMsg := strings.TrimSpace(result.Stderr)
	if errorMsg == "" {
		errorMsg = extractErrorFromOutput(result.Stdout)
	}
	if errorMsg == "" {
		errorMsg = "(no error message captured)"
	}

	errorMsgLower := strings.ToLower(errorMsg)

	if containsAny(errorMsgLower, []string{"rate limit", "too many requests", "429", "quota"}) {
		return core.ErrRateLimit(errorMsg)
	}
	if containsAny(errorMsgLower, []string{"unauthorized", "authentication", "api key", "token expired"}) {
		return core.ErrValidation("AUTH", errorMsg)
	}
	if containsAny(errorMsgLower, []string{"connection", "network", "unreachable"}) {
		return core.ErrNetwork(errorMsg)
	}

	return core.ErrExecution("CLI_ERROR",
		fmt.Sprintf("command failed with exit code %d: %s", result.ExitCode, errorMsg),
	)
}

// extractErrorFromOutput tries to extract error messages from stdout.
// Many CLIs output JSON with error fields to stdout.
func extractErrorFromOutput(stdout string) string {
	lines := strings.Split(stdout, "\n")
	for i := len(lines) - 1; i >= 0; i-- { // errors are usually at the end
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "{") {
			continue
		}

		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			continue
		}

		if errMsg, ok := obj["error"].(string); ok && errMsg != "" {
			return errMsg
		}
		if errObj, ok := obj["error"].(map[string]interface{}); ok {
			if msg, ok := errObj["message"].(string); ok && msg != "" {
				return msg
			}
		}
	}

	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line != "" && !strings.HasPrefix(line, "{") {
			if len(line) > 200 {
				return line[:200] + "..."
			}
			return line
		}
	}

	return ""
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// GetVersion retrieves the CLI version.
func (b *BaseAdapter) GetVersion(ctx context.Context, versionArg string) (string, error) {
	result, err := b.ExecuteCommand(ctx, []string{versionArg}, "", "", 30*time.Second)
	if err != nil {
		return "", err
	}

	output := result.Stdout + result.Stderr
	re := regexp.MustCompile(`v?\d+\.\d+(\.\d+)?(-[a-zA-Z0-9]+)?`)
	if match := re.FindString(output); match != "" {
		return match, nil
	}

	return strings.TrimSpace(output), nil
}

// CheckAvailability verifies the CLI is installed and accessible.
func (b *BaseAdapter) CheckAvailability(_ context.Context) error {
	cmdPath := b.config.Path
	if cmdPath == "" {
		return core.ErrValidation("NO_PATH", "provider path not configured")
	}

	cmdParts := strings.Fields(cmdPath)
	cmdPath = cmdParts[0]

	if _, err := exec.LookPath(cmdPath); err != nil {
		return core.ErrNotFound("CLI", cmdPath)
	}

	return nil
}

// TokenEstimate provides a rough token count estimate.
func (b *BaseAdapter) TokenEstimate(text string) int {
	// ~4 characters per token for English text
	return len(text) / 4
}
