package merge

import "testing"

func mustParse(t *testing.T, text string) ParsedFile {
	t.Helper()
	parsed := ParseFile(text)
	if len(parsed.Blocks) == 0 {
		t.Fatalf("fixture did not parse into blocks")
	}
	return parsed
}

func TestFindMatch_ExactBeatsWeakerRules(t *testing.T) {
	// The exact-match block comes second so priority, not file order,
	// must decide.
	text := `test.describe('User helpers', () => { test('a', () => {}); });

test.describe('getUser method for user accounts', () => { test('b', () => {}); });
`
	parsed := mustParse(t, text)

	block, rule := FindMatch(&parsed, "user", "getUser")
	if block == nil {
		t.Fatalf("expected a match")
	}
	if rule != MatchExact {
		t.Fatalf("expected rule %s, got %s", MatchExact, rule)
	}
	if block.Title != "getUser method for user accounts" {
		t.Fatalf("wrong block selected: %q", block.Title)
	}
}

func TestFindMatch_FeatureRule(t *testing.T) {
	parsed := mustParse(t, twoBlockFile)

	block, rule := FindMatch(&parsed, "order", "updateOrder")
	if block == nil {
		t.Fatalf("expected a match")
	}
	if rule != MatchFeature {
		t.Fatalf("expected rule %s, got %s", MatchFeature, rule)
	}
	if block.Title != "Order Management Service" {
		t.Fatalf("wrong block selected: %q", block.Title)
	}
}

func TestFindMatch_TestLabelRule(t *testing.T) {
	text := `test.describe('Alpha things', () => {});

test.describe('chargeCard method edge cases', () => {});
`
	parsed := mustParse(t, text)

	block, rule := FindMatch(&parsed, "billing", "chargeCard")
	if block == nil || rule != MatchTestLabel {
		t.Fatalf("expected test-label match, got %v / %s", block, rule)
	}
	if block.Title != "chargeCard method edge cases" {
		t.Fatalf("wrong block selected: %q", block.Title)
	}
}

func TestFindMatch_ContentHeuristic(t *testing.T) {
	text := `test.describe('Alpha', () => { test('x', () => {}); });

test.describe('Beta', () => { await api.chargeCard(42); });
`
	parsed := mustParse(t, text)

	block, rule := FindMatch(&parsed, "zzz", "chargeCard")
	if block == nil || rule != MatchContent {
		t.Fatalf("expected content match, got %v / %s", block, rule)
	}
	if block.Title != "Beta" {
		t.Fatalf("wrong block selected: %q", block.Title)
	}
}

func TestFindMatch_SingleBlockFallback(t *testing.T) {
	parsed := mustParse(t, "test.describe('zzz qqq', () => {});\n")

	block, rule := FindMatch(&parsed, "payment", "chargeCard")
	if block == nil {
		t.Fatalf("single-block file must always match")
	}
	if rule != MatchSingleBlock {
		t.Fatalf("expected rule %s, got %s", MatchSingleBlock, rule)
	}
}

func TestFindMatch_AmbiguousReturnsNone(t *testing.T) {
	text := `test.describe('Alpha', () => {});

test.describe('Beta', () => {});
`
	parsed := mustParse(t, text)

	block, rule := FindMatch(&parsed, "payment", "chargeCard")
	if block != nil || rule != MatchNone {
		t.Fatalf("expected no match for ambiguous target, got %v / %s", block, rule)
	}
}

func TestFindMatch_CaseInsensitive(t *testing.T) {
	parsed := mustParse(t, twoBlockFile)

	block, _ := FindMatch(&parsed, "ORDER", "Order")
	if block == nil || block.Title != "Order Management Service" {
		t.Fatalf("matching must be case-insensitive")
	}
}

func TestFindMatch_Deterministic(t *testing.T) {
	parsed := mustParse(t, twoBlockFile)

	first, rule1 := FindMatch(&parsed, "user", "searchUsers")
	second, rule2 := FindMatch(&parsed, "user", "searchUsers")
	if first == nil || second == nil {
		t.Fatalf("expected matches")
	}
	if first != second || rule1 != rule2 {
		t.Fatalf("repeated calls must return the identical block: %p vs %p", first, second)
	}
	if first.Start != second.Start || first.End != second.End {
		t.Fatalf("match range changed between calls")
	}
}

func TestFindMatch_EmptyTargetNeverLabelMatches(t *testing.T) {
	text := `test.describe('Alpha', () => {});

test.describe('Beta', () => {});
`
	parsed := mustParse(t, text)

	// Blocks have non-empty labels; an empty target must not match them,
	// and with two blocks the single-block fallback does not apply.
	if block, _ := FindMatch(&parsed, "", ""); block != nil {
		t.Fatalf("empty target must not match a multi-block file")
	}
}
