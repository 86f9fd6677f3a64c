// Package target derives match targets from source file paths. A changed
// source file like src/payments/checkout_flow.js maps to the feature/test
// pair used to locate its block in an existing test file.
package target

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"

	"github.com/hugo-lorenzo-mato/testforge/internal/core"
	"github.com/hugo-lorenzo-mato/testforge/internal/merge"
)

// Mapper converts file paths to match targets using a feature vocabulary.
type Mapper struct {
	keywords []string
}

// NewMapper creates a mapper. A nil or empty vocabulary falls back to the
// default feature keywords.
func NewMapper(keywords []string) *Mapper {
	if len(keywords) == 0 {
		keywords = merge.DefaultFeatureKeywords
	}
	return &Mapper{keywords: keywords}
}

// FromPath derives a match target from a source file path. The feature is
// the vocabulary keyword best matching the path; the test name is the file
// base name in lowerCamel form with test/spec suffixes stripped.
func (m *Mapper) FromPath(path string) core.MatchTarget {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	base = strings.TrimSuffix(base, ".spec")
	base = strings.TrimSuffix(base, ".test")

	return core.MatchTarget{
		Feature:  m.feature(path),
		TestName: lowerCamel(base),
	}
}

// feature picks the vocabulary keyword for a path. Exact substring match
// wins; otherwise the keyword with the best fuzzy score against the path
// is used. Paths matching nothing yield an empty feature, which disables
// label matching downstream.
func (m *Mapper) feature(path string) string {
	lowerPath := strings.ToLower(path)

	for _, kw := range m.keywords {
		if strings.Contains(lowerPath, strings.ToLower(kw)) {
			return kw
		}
	}

	// Fuzzy scores can be negative, so track any-match separately.
	best := ""
	bestScore := 0
	found := false
	for _, kw := range m.keywords {
		matches := fuzzy.Find(strings.ToLower(kw), []string{lowerPath})
		if len(matches) == 0 {
			continue
		}
		if !found || matches[0].Score > bestScore {
			best = kw
			bestScore = matches[0].Score
			found = true
		}
	}
	return best
}

// lowerCamel converts snake_case, kebab-case, or dotted names to lowerCamel.
func lowerCamel(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ' '
	})
	if len(words) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		runes := []rune(strings.ToLower(w))
		if len(runes) == 0 {
			continue
		}
		runes[0] = unicode.ToUpper(runes[0])
		sb.WriteString(string(runes))
	}
	return sb.String()
}
