package merge

import (
	"strings"
	"testing"
)

func TestReplaceBlock_Locality(t *testing.T) {
	parsed := ParseFile(twoBlockFile)
	target := parsed.Blocks[0]
	newContent := "test.describe('Order Management Service', () => {\n  test('updateOrder handles 404', () => {});\n});"

	out := ReplaceBlock(twoBlockFile, target, newContent)

	if !strings.Contains(out, newContent) {
		t.Fatalf("inserted content must appear verbatim")
	}
	if strings.Contains(out, "updateOrder returns 200") {
		t.Fatalf("old block content must be gone")
	}
	// Everything outside the replaced range survives.
	if !strings.Contains(out, "const BASE_URL = 'http://localhost:3000';") {
		t.Fatalf("header must be preserved")
	}
	if !strings.Contains(out, "test.describe('User Search Service'") {
		t.Fatalf("sibling block must be preserved")
	}
	if !strings.Contains(out, "searchUsers filters by name") {
		t.Fatalf("sibling block body must be preserved")
	}
}

func TestReplaceBlock_NoOpKeepsFileIdentical(t *testing.T) {
	parsed := ParseFile(twoBlockFile)
	target := parsed.Blocks[0]

	out := ReplaceBlock(twoBlockFile, target, target.Content)
	if out != twoBlockFile {
		t.Fatalf("re-splicing a block with its own content should be the identity here:\n--- want ---\n%s\n--- got ---\n%s", twoBlockFile, out)
	}
}

func TestReplaceBlock_SeamNormalization(t *testing.T) {
	text := "header();\n\n\n\ntest.describe('X', () => {});\n\n\n\nfooter();\n"
	parsed := ParseFile(text)
	if len(parsed.Blocks) != 1 {
		t.Fatalf("fixture should parse into one block, got %d", len(parsed.Blocks))
	}

	out := ReplaceBlock(text, parsed.Blocks[0], "NEW")
	want := "header();\n\nNEW\n\nfooter();\n"
	if out != want {
		t.Fatalf("seams must normalize to one blank line:\nwant %q\ngot  %q", want, out)
	}
}

func TestReplaceBlock_LastBlock(t *testing.T) {
	text := "test.describe('Only', () => {});\n"
	parsed := ParseFile(text)

	out := ReplaceBlock(text, parsed.Blocks[0], "NEW")
	if !strings.Contains(out, "NEW") {
		t.Fatalf("replacement missing from output: %q", out)
	}
	if strings.Contains(out, "Only") {
		t.Fatalf("old block must be gone: %q", out)
	}
}
