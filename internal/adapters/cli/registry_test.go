package cli

import (
	"context"
	"sort"
	"testing"

	"github.com/hugo-lorenzo-mato/testforge/internal/core"
)

func TestRegistry_Builtins(t *testing.T) {
	r := NewRegistry()

	names := r.List()
	sort.Strings(names)

	want := map[string]bool{"claude": true, "gemini": true, "codex": true}
	for name := range want {
		found := false
		for _, n := range names {
			if n == name {
				found = true
			}
		}
		if !found {
			t.Fatalf("builtin %q missing from %v", name, names)
		}
	}
}

func TestRegistry_GetCreatesAndCaches(t *testing.T) {
	r := NewRegistry()

	first, err := r.Get("claude")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.Get("claude")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatal("expected cached instance on second Get")
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Get("no-such-provider"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestRegistry_ConfigureInvalidatesCache(t *testing.T) {
	r := NewRegistry()

	first, _ := r.Get("gemini")
	r.Configure("gemini", ProviderConfig{Name: "gemini", Model: "gemini-2.5-pro"})
	second, err := r.Get("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Fatal("expected fresh instance after Configure")
	}
}

type fakeGenerator struct{ name string }

func (f *fakeGenerator) Name() string                   { return f.name }
func (f *fakeGenerator) Ping(_ context.Context) error   { return nil }
func (f *fakeGenerator) Generate(_ context.Context, _ core.GenerateRequest) (*core.GenerateResult, error) {
	return &core.GenerateResult{Output: "ok"}, nil
}

func TestRegistry_RegisterDirect(t *testing.T) {
	r := NewRegistry()

	fake := &fakeGenerator{name: "custom"}
	if err := r.Register("custom", fake); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := r.Get("custom")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name() != "custom" {
		t.Fatalf("name = %q", got.Name())
	}
}
