package merge

import (
	"strings"
	"testing"
)

func TestTrimToBlockStart(t *testing.T) {
	generated := "Here is the updated test block:\n\ntest.describe('X', () => {});\n"

	out, ok := TrimToBlockStart(generated, "")
	if !ok {
		t.Fatalf("expected the token to be found")
	}
	if !strings.HasPrefix(out, "test.describe(") {
		t.Fatalf("preamble must be discarded, got %q", out)
	}
}

func TestTrimToBlockStart_NoToken(t *testing.T) {
	out, ok := TrimToBlockStart("sorry, I cannot help with that", "")
	if ok {
		t.Fatalf("expected not-found for a reply without a block")
	}
	if out != "sorry, I cannot help with that" {
		t.Fatalf("text must pass through unchanged when the token is absent")
	}
}

func TestTrimToBlockStart_CustomToken(t *testing.T) {
	out, ok := TrimToBlockStart("x\ndescribe('Y', () => {});", "describe(")
	if !ok || !strings.HasPrefix(out, "describe(") {
		t.Fatalf("custom token not honored: %q (ok=%v)", out, ok)
	}
}

func TestStripCodeFences(t *testing.T) {
	in := "```javascript\ntest.describe('X', () => {});\n```\n"
	out := StripCodeFences(in)
	if strings.Contains(out, "```") {
		t.Fatalf("fences must be removed, got %q", out)
	}
	if !strings.HasPrefix(out, "test.describe(") {
		t.Fatalf("body must survive, got %q", out)
	}
}

func TestStripCodeFences_NoFence(t *testing.T) {
	in := "test.describe('X', () => {});\n"
	if out := StripCodeFences(in); out != in {
		t.Fatalf("unfenced text must pass through unchanged")
	}
}
