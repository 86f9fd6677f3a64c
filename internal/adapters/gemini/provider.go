// Package gemini implements a Generator backed by the Gemini API instead of
// a local CLI. It is useful in CI where no interactive CLI is installed.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/hugo-lorenzo-mato/testforge/internal/core"
	"github.com/hugo-lorenzo-mato/testforge/internal/logging"
)

const defaultModel = "gemini-2.5-pro"

// Provider generates text through the Gemini API.
type Provider struct {
	client *genai.Client
	model  string
	logger *logging.Logger
}

// New creates an API-backed Gemini provider.
func New(ctx context.Context, apiKey, model string, logger *logging.Logger) (*Provider, error) {
	if apiKey == "" {
		return nil, core.ErrValidation("NO_API_KEY", "gemini API key is required")
	}
	if model == "" {
		model = defaultModel
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Provider{
		client: client,
		model:  model,
		logger: logger.WithProvider("gemini-api"),
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "gemini-api"
}

// Ping verifies the API key works with a minimal generation call.
func (p *Provider) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText("ping", genai.RoleUser),
	}
	_, err := p.client.Models.GenerateContent(ctx, p.model, contents, &genai.GenerateContentConfig{
		MaxOutputTokens: 8,
	})
	if err != nil {
		return classifyAPIError(err)
	}
	return nil
}

// Generate runs a prompt through the Gemini API.
func (p *Provider) Generate(ctx context.Context, req core.GenerateRequest) (*core.GenerateResult, error) {
	timeout := req.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	model := req.Model
	if model == "" {
		model = p.model
	}

	config := &genai.GenerateContentConfig{}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}

	p.logger.Info("api: generating",
		"model", model,
		"prompt_length", len(req.Prompt),
		"timeout", timeout,
	)

	startTime := time.Now()
	resp, err := p.client.Models.GenerateContent(ctx, model, contents, config)
	duration := time.Since(startTime)

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, core.ErrTimeout(fmt.Sprintf("generation timed out after %v", timeout))
		}
		return nil, classifyAPIError(err)
	}

	result := &core.GenerateResult{
		Output:   resp.Text(),
		Duration: duration,
		Model:    model,
	}
	if resp.UsageMetadata != nil {
		result.TokensIn = int(resp.UsageMetadata.PromptTokenCount)
		result.TokensOut = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	p.logger.Info("api: generation complete",
		"model", model,
		"duration", duration,
		"tokens_in", result.TokensIn,
		"tokens_out", result.TokensOut,
	)

	return result, nil
}

// classifyAPIError maps API failures to domain errors.
func classifyAPIError(err error) error {
	msg := err.Error()
	msgLower := strings.ToLower(msg)

	switch {
	case strings.Contains(msgLower, "rate limit"),
		strings.Contains(msgLower, "429"),
		strings.Contains(msgLower, "quota"):
		return core.ErrRateLimit(msg).WithCause(err)
	case strings.Contains(msgLower, "api key"),
		strings.Contains(msgLower, "unauthorized"),
		strings.Contains(msgLower, "401"), strings.Contains(msgLower, "403"):
		return core.ErrValidation("AUTH", msg).WithCause(err)
	case strings.Contains(msgLower, "connection"),
		strings.Contains(msgLower, "unavailable"),
		strings.Contains(msgLower, "503"):
		return core.ErrNetwork(msg).WithCause(err)
	default:
		return core.ErrExecution("API_ERROR", msg).WithCause(err)
	}
}

var _ core.Generator = (*Provider)(nil)
