package cli

import (
	"context"

	"github.com/hugo-lorenzo-mato/testforge/internal/core"
	"github.com/hugo-lorenzo-mato/testforge/internal/logging"
)

// GeminiAdapter implements Generator for the Gemini CLI.
type GeminiAdapter struct {
	*BaseAdapter
}

// NewGeminiAdapter creates a new Gemini adapter.
func NewGeminiAdapter(cfg ProviderConfig) (core.Generator, error) {
	if cfg.Path == "" {
		cfg.Path = "gemini"
	}
	if cfg.Name == "" {
		cfg.Name = "gemini"
	}

	logger := logging.NewNop().With("provider", "gemini")
	return &GeminiAdapter{BaseAdapter: NewBaseAdapter(cfg, logger)}, nil
}

// Name returns the provider identifier.
func (g *GeminiAdapter) Name() string {
	return g.config.Name
}

// Ping checks if the Gemini CLI is available.
func (g *GeminiAdapter) Ping(ctx context.Context) error {
	if err := g.CheckAvailability(ctx); err != nil {
		return err
	}
	_, err := g.GetVersion(ctx, "--version")
	return err
}

// Generate runs a prompt through the Gemini CLI. The system prompt is
// prepended to the user prompt since the CLI has no separate flag for it.
func (g *GeminiAdapter) Generate(ctx context.Context, req core.GenerateRequest) (*core.GenerateResult, error) {
	args := []string{}

	model := req.Model
	if model == "" {
		model = g.config.Model
	}
	if model != "" {
		args = append(args, "--model", model)
	}

	prompt := req.Prompt
	if req.SystemPrompt != "" {
		prompt = req.SystemPrompt + "\n\n" + prompt
	}
	args = append(args, prompt)

	result, err := g.ExecuteCommand(ctx, args, "", req.WorkDir, req.Timeout)
	if err != nil {
		return nil, err
	}

	return &core.GenerateResult{
		Output:    result.Stdout,
		TokensIn:  g.TokenEstimate(prompt),
		TokensOut: g.TokenEstimate(result.Stdout),
		Duration:  result.Duration,
		Model:     model,
	}, nil
}

var _ core.Generator = (*GeminiAdapter)(nil)
