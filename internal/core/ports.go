package core

import (
	"context"
	"time"
)

// Generator defines the contract for text-generation backends. A backend
// receives a prompt and returns generated test code; it may be a local AI
// CLI running as a subprocess or a remote API.
type Generator interface {
	// Name returns the provider identifier (e.g., "claude", "gemini-api").
	Name() string

	// Ping checks if the provider is available and authenticated.
	Ping(ctx context.Context) error

	// Generate runs a prompt through the provider and returns the result.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
}

// GenerateRequest configures a single generation call.
type GenerateRequest struct {
	Prompt       string
	SystemPrompt string
	Model        string
	MaxTokens    int
	Temperature  float64
	Timeout      time.Duration
	WorkDir      string
}

// DefaultGenerateRequest returns sensible defaults.
func DefaultGenerateRequest() GenerateRequest {
	return GenerateRequest{
		MaxTokens:   8192,
		Temperature: 0.2,
		Timeout:     5 * time.Minute,
	}
}

// GenerateResult contains the output of a generation call.
type GenerateResult struct {
	Output    string
	TokensIn  int
	TokensOut int
	Duration  time.Duration
	Model     string
}

// TotalTokens returns the sum of input and output tokens.
func (r *GenerateResult) TotalTokens() int {
	return r.TokensIn + r.TokensOut
}

// GeneratorRegistry manages registered generation backends.
type GeneratorRegistry interface {
	// Register adds a generator to the registry.
	Register(name string, gen Generator) error

	// Get retrieves a generator by name.
	Get(name string) (Generator, error)

	// List returns all registered generator names.
	List() []string
}
