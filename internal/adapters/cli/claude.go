package cli

import (
	"context"
	"regexp"
	"strconv"

	"github.com/hugo-lorenzo-mato/testforge/internal/core"
	"github.com/hugo-lorenzo-mato/testforge/internal/logging"
)

// ClaudeAdapter implements Generator for the Claude CLI.
type ClaudeAdapter struct {
	*BaseAdapter
}

// NewClaudeAdapter creates a new Claude adapter.
func NewClaudeAdapter(cfg ProviderConfig) (core.Generator, error) {
	if cfg.Path == "" {
		cfg.Path = "claude"
	}
	if cfg.Name == "" {
		cfg.Name = "claude"
	}

	logger := logging.NewNop().With("provider", "claude")
	return &ClaudeAdapter{BaseAdapter: NewBaseAdapter(cfg, logger)}, nil
}

// Name returns the provider identifier.
func (c *ClaudeAdapter) Name() string {
	return c.config.Name
}

// Ping checks if the Claude CLI is available.
func (c *ClaudeAdapter) Ping(ctx context.Context) error {
	if err := c.CheckAvailability(ctx); err != nil {
		return err
	}
	_, err := c.GetVersion(ctx, "--version")
	return err
}

// Generate runs a prompt through the Claude CLI.
func (c *ClaudeAdapter) Generate(ctx context.Context, req core.GenerateRequest) (*core.GenerateResult, error) {
	args := c.buildArgs(req)
	args = append(args, req.Prompt)

	result, err := c.ExecuteCommand(ctx, args, "", req.WorkDir, req.Timeout)
	if err != nil {
		return nil, err
	}

	genResult := &core.GenerateResult{
		Output:   result.Stdout,
		Duration: result.Duration,
		Model:    c.effectiveModel(req.Model),
	}
	c.extractUsage(result, genResult)
	return genResult, nil
}

func (c *ClaudeAdapter) buildArgs(req core.GenerateRequest) []string {
	// Print mode for non-interactive use
	args := []string{"--print"}

	if model := c.effectiveModel(req.Model); model != "" {
		args = append(args, "--model", model)
	}
	if req.SystemPrompt != "" {
		args = append(args, "--system-prompt", req.SystemPrompt)
	}

	return args
}

func (c *ClaudeAdapter) effectiveModel(reqModel string) string {
	if reqModel != "" {
		return reqModel
	}
	return c.config.Model
}

var claudeTokenRe = regexp.MustCompile(`tokens?:?\s*(\d+)\s*in\D*(\d+)\s*out`)

// extractUsage attempts to extract token usage from output, falling back to
// a character-based estimate.
func (c *ClaudeAdapter) extractUsage(result *CommandResult, genResult *core.GenerateResult) {
	combined := result.Stdout + result.Stderr

	if matches := claudeTokenRe.FindStringSubmatch(combined); len(matches) == 3 {
		if in, err := strconv.Atoi(matches[1]); err == nil {
			genResult.TokensIn = in
		}
		if out, err := strconv.Atoi(matches[2]); err == nil {
			genResult.TokensOut = out
		}
	}

	if genResult.TokensOut == 0 {
		genResult.TokensOut = c.TokenEstimate(result.Stdout)
	}
}

var _ core.Generator = (*ClaudeAdapter)(nil)
