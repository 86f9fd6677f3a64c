package cli

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hugo-lorenzo-mato/testforge/internal/core"
)

func newTestAdapter(path string) *BaseAdapter {
	return NewBaseAdapter(ProviderConfig{
		Name:    "test",
		Path:    path,
		Timeout: 10 * time.Second,
	}, nil)
}

func TestExecuteCommand_Success(t *testing.T) {
	b := newTestAdapter("echo")

	result, err := b.ExecuteCommand(context.Background(), []string{"hello"}, "", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(result.Stdout) != "hello" {
		t.Fatalf("stdout = %q, want hello", result.Stdout)
	}
	if result.ExitCode != 0 {
		t.Fatalf("exit code = %d, want 0", result.ExitCode)
	}
}

func TestExecuteCommand_Stdin(t *testing.T) {
	b := newTestAdapter("cat")

	result, err := b.ExecuteCommand(context.Background(), nil, "piped input", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Stdout != "piped input" {
		t.Fatalf("stdout = %q", result.Stdout)
	}
}

func TestExecuteCommand_NoPath(t *testing.T) {
	b := newTestAdapter("")

	_, err := b.ExecuteCommand(context.Background(), nil, "", "", 0)
	if err == nil {
		t.Fatal("expected error for empty path")
	}
	if core.CategoryOf(err) != core.ErrCatValidation {
		t.Fatalf("category = %s, want validation", core.CategoryOf(err))
	}
}

func TestExecuteCommand_Timeout(t *testing.T) {
	b := newTestAdapter("sleep")

	_, err := b.ExecuteCommand(context.Background(), []string{"5"}, "", "", 50*time.Millisecond)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if core.CategoryOf(err) != core.ErrCatTimeout {
		t.Fatalf("category = %s, want timeout", core.CategoryOf(err))
	}
	if !core.IsRetryable(err) {
		t.Fatal("timeout should be retryable")
	}
}

func TestExecuteCommand_NonZeroExit(t *testing.T) {
	b := newTestAdapter("false")

	result, err := b.ExecuteCommand(context.Background(), nil, "", "", 0)
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if result == nil || result.ExitCode == 0 {
		t.Fatal("expected non-zero exit code in result")
	}
}

func TestExecuteCommand_MultiWordPath(t *testing.T) {
	b := newTestAdapter("echo prefixed")

	result, err := b.ExecuteCommand(context.Background(), []string{"arg"}, "", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(result.Stdout) != "prefixed arg" {
		t.Fatalf("stdout = %q", result.Stdout)
	}
}

func TestClassifyError(t *testing.T) {
	b := newTestAdapter("echo")

	tests := []struct {
		name     string
		stderr   string
		category core.ErrorCategory
	}{
		{"rate limit", "Error: rate limit exceeded, retry later", core.ErrCatRateLimit},
		{"quota", "429: quota exhausted", core.ErrCatRateLimit},
		{"auth", "unauthorized: invalid api key", core.ErrCatValidation},
		{"network", "connection refused", core.ErrCatNetwork},
		{"generic", "something broke", core.ErrCatExecution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.classifyError(&CommandResult{Stderr: tt.stderr, ExitCode: 1})
			if got := core.CategoryOf(err); got != tt.category {
				t.Fatalf("category = %s, want %s", got, tt.category)
			}
		})
	}
}

func TestExtractErrorFromOutput(t *testing.T) {
	stdout := "some progress\n" + `{"error": "model overloaded"}` + "\n"
	if got := extractErrorFromOutput(stdout); got != "model overloaded" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractErrorFromOutput_NestedError(t *testing.T) {
	stdout := `{"error": {"message": "invalid request", "code": 400}}`
	if got := extractErrorFromOutput(stdout); got != "invalid request" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractErrorFromOutput_FallbackLastLine(t *testing.T) {
	stdout := "first\nfatal: everything failed\n"
	if got := extractErrorFromOutput(stdout); got != "fatal: everything failed" {
		t.Fatalf("got %q", got)
	}
}

func TestCheckAvailability(t *testing.T) {
	b := newTestAdapter("echo")
	if err := b.CheckAvailability(context.Background()); err != nil {
		t.Fatalf("echo should be available: %v", err)
	}

	b = newTestAdapter("definitely-not-a-real-binary-xyz")
	err := b.CheckAvailability(context.Background())
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	var de *core.DomainError
	if !errors.As(err, &de) || de.Category != core.ErrCatNotFound {
		t.Fatalf("expected not_found domain error, got %v", err)
	}
}

func TestTokenEstimate(t *testing.T) {
	b := newTestAdapter("echo")
	if got := b.TokenEstimate(strings.Repeat("a", 400)); got != 100 {
		t.Fatalf("estimate = %d, want 100", got)
	}
}
