package merge

import "strings"

// MatchRule identifies which cascade rule selected a block. Rules are
// ordered strongest to weakest; callers can log the rule to surface how
// weak the matching signal was.
type MatchRule int

const (
	MatchNone MatchRule = iota
	MatchExact
	MatchTestLabel
	MatchFeature
	MatchContent
	MatchSingleBlock
)

// String returns the rule name for logs.
func (r MatchRule) String() string {
	switch r {
	case MatchExact:
		return "exact"
	case MatchTestLabel:
		return "test-label"
	case MatchFeature:
		return "feature"
	case MatchContent:
		return "content"
	case MatchSingleBlock:
		return "single-block"
	default:
		return "none"
	}
}

// FindMatch selects the single block a (feature, testName) target should
// replace, trying progressively weaker rules:
//
//  1. feature label and test label both match
//  2. test label matches
//  3. feature label matches
//  4. the block content references the test name as a call, member or
//     string literal
//  5. the file holds exactly one block
//
// Comparison is case-insensitive. Ties within a rule resolve to the first
// block in file order. When no rule produces a candidate, FindMatch
// returns nil and MatchNone: the caller must fall back to whole-file
// regeneration rather than guess which block to destroy.
func FindMatch(parsed *ParsedFile, feature, testName string) (*Block, MatchRule) {
	feature = strings.ToLower(strings.TrimSpace(feature))
	testName = strings.ToLower(strings.TrimSpace(testName))
	blocks := parsed.Blocks

	if feature != "" && testName != "" {
		for i := range blocks {
			if strings.EqualFold(blocks[i].FeatureLabel, feature) &&
				strings.EqualFold(blocks[i].TestLabel, testName) {
				return &blocks[i], MatchExact
			}
		}
	}
	if testName != "" {
		for i := range blocks {
			if strings.EqualFold(blocks[i].TestLabel, testName) {
				return &blocks[i], MatchTestLabel
			}
		}
	}
	if feature != "" {
		for i := range blocks {
			if strings.EqualFold(blocks[i].FeatureLabel, feature) {
				return &blocks[i], MatchFeature
			}
		}
	}
	if testName != "" {
		for i := range blocks {
			if contentReferences(blocks[i].Content, testName) {
				return &blocks[i], MatchContent
			}
		}
	}
	if len(blocks) == 1 {
		return &blocks[0], MatchSingleBlock
	}
	return nil, MatchNone
}

// contentReferences reports whether the block body appears to use the
// test name as a method call, member access or string literal.
func contentReferences(content, lowerName string) bool {
	lc := strings.ToLower(content)
	return strings.Contains(lc, lowerName+"(") ||
		strings.Contains(lc, "."+lowerName) ||
		strings.Contains(lc, "'"+lowerName+"'") ||
		strings.Contains(lc, `"`+lowerName+`"`) ||
		strings.Contains(lc, "`"+lowerName+"`")
}
