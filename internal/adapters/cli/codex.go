package cli

import (
	"context"

	"github.com/hugo-lorenzo-mato/testforge/internal/core"
	"github.com/hugo-lorenzo-mato/testforge/internal/logging"
)

// CodexAdapter implements Generator for the Codex CLI.
type CodexAdapter struct {
	*BaseAdapter
}

// NewCodexAdapter creates a new Codex adapter.
func NewCodexAdapter(cfg ProviderConfig) (core.Generator, error) {
	if cfg.Path == "" {
		cfg.Path = "codex"
	}
	if cfg.Name == "" {
		cfg.Name = "codex"
	}

	logger := logging.NewNop().With("provider", "codex")
	return &CodexAdapter{BaseAdapter: NewBaseAdapter(cfg, logger)}, nil
}

// Name returns the provider identifier.
func (c *CodexAdapter) Name() string {
	return c.config.Name
}

// Ping checks if the Codex CLI is available.
func (c *CodexAdapter) Ping(ctx context.Context) error {
	if err := c.CheckAvailability(ctx); err != nil {
		return err
	}
	_, err := c.GetVersion(ctx, "--version")
	return err
}

// Generate runs a prompt through the Codex CLI in exec (headless) mode.
func (c *CodexAdapter) Generate(ctx context.Context, req core.GenerateRequest) (*core.GenerateResult, error) {
	args := c.buildArgs(req)

	prompt := req.Prompt
	if req.SystemPrompt != "" {
		prompt = req.SystemPrompt + "\n\n" + prompt
	}
	args = append(args, prompt)

	result, err := c.ExecuteCommand(ctx, args, "", req.WorkDir, req.Timeout)
	if err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = c.config.Model
	}

	return &core.GenerateResult{
		Output:    result.Stdout,
		TokensIn:  c.TokenEstimate(prompt),
		TokensOut: c.TokenEstimate(result.Stdout),
		Duration:  result.Duration,
		Model:     model,
	}, nil
}

func (c *CodexAdapter) buildArgs(req core.GenerateRequest) []string {
	args := []string{"exec", "--skip-git-repo-check"}

	// Headless approvals/sandbox via config overrides. Generation only
	// needs to read sources; it never writes through the CLI.
	args = append(args,
		"-c", `approval_policy="never"`,
		"-c", `sandbox_mode="read-only"`,
	)

	model := req.Model
	if model == "" {
		model = c.config.Model
	}
	if model != "" {
		args = append(args, "--model", model)
	}

	return args
}

var _ core.Generator = (*CodexAdapter)(nil)
