package merge

import (
	"regexp"
	"strings"
)

// DefaultGroupToken is the group-opening token that starts a test block.
const DefaultGroupToken = "test.describe("

// DefaultFeatureKeywords is the domain vocabulary used to derive a
// feature label from a block title when no explicit list is configured.
var DefaultFeatureKeywords = []string{"order", "user", "auth", "payment"}

// Options configures a Partitioner. Zero values select the defaults.
type Options struct {
	// GroupToken is the literal that opens a test group.
	GroupToken string
	// FeatureKeywords is the ordered vocabulary matched (as substrings,
	// case-insensitively) against block titles to derive feature labels.
	FeatureKeywords []string
}

// Partitioner splits test files into header, blocks and footer.
type Partitioner struct {
	opts Options
}

// NewPartitioner creates a partitioner, filling unset options with
// defaults.
func NewPartitioner(opts Options) *Partitioner {
	if opts.GroupToken == "" {
		opts.GroupToken = DefaultGroupToken
	}
	if len(opts.FeatureKeywords) == 0 {
		opts.FeatureKeywords = DefaultFeatureKeywords
	}
	return &Partitioner{opts: opts}
}

// ParseFile partitions text using default options.
func ParseFile(text string) ParsedFile {
	return NewPartitioner(Options{}).Parse(text)
}

// Parse decomposes text into an ordered sequence of top-level blocks.
// Group-opening tokens nested inside an open block are left inside their
// parent's content. Occurrences whose block never closes are skipped
// rather than reported; malformed input can under-report blocks but never
// fails.
func (p *Partitioner) Parse(text string) ParsedFile {
	token := p.opts.GroupToken
	var blocks []Block

	cursor := 0
	for cursor < len(text) {
		idx := nextTokenIndex(text, cursor, token)
		if idx < 0 {
			break
		}
		if braceDepthBefore(text, idx) != 0 {
			// Nested inside a not-yet-closed brace; stays in the parent.
			cursor = idx + 1
			continue
		}
		end := FindBlockEnd(text, idx)
		if end == NotFound {
			cursor = idx + len(token)
			continue
		}
		content := text[idx:end]
		title, _ := extractTitle(content, token)
		blocks = append(blocks, Block{
			Content:      content,
			Start:        idx,
			End:          end,
			Title:        title,
			FeatureLabel: p.featureLabel(title),
			TestLabel:    p.testLabel(title),
		})
		cursor = end
	}

	if len(blocks) == 0 {
		return ParsedFile{}
	}
	return ParsedFile{
		Header: strings.TrimSpace(text[:blocks[0].Start]),
		Blocks: blocks,
		Footer: strings.TrimSpace(text[blocks[len(blocks)-1].End:]),
	}
}

// nextTokenIndex returns the offset of the next token occurrence at or
// after from that sits in code (not inside a string or comment), or -1.
func nextTokenIndex(text string, from int, token string) int {
	found := -1
	scanCode(text, from, func(i int, c byte) bool {
		if c == token[0] && strings.HasPrefix(text[i:], token) {
			found = i
			return false
		}
		return true
	})
	return found
}

// braceDepthBefore returns the net count of unmatched braces in the code
// bytes of text[:end]. A block token is top-level iff this is zero.
func braceDepthBefore(text string, end int) int {
	depth := 0
	scanCode(text, 0, func(i int, c byte) bool {
		if i >= end {
			return false
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
		}
		return true
	})
	return depth
}

// extractTitle returns the first quoted string argument of the
// group-opening call. The search stops at the body brace so a string
// deep in the block body is never mistaken for a title.
func extractTitle(content, token string) (string, bool) {
	i := len(token)
	for i < len(content) {
		c := content[i]
		switch {
		case c == '{':
			return "", false
		case c == '\'' || c == '"' || c == '`':
			return readQuoted(content, i)
		case c == '/' && i+1 < len(content) && (content[i+1] == '/' || content[i+1] == '*'):
			i = skipComment(content, i)
		default:
			i++
		}
	}
	return "", false
}

// readQuoted reads the string literal opening at i and returns its inner
// text.
func readQuoted(text string, i int) (string, bool) {
	quote := text[i]
	var sb strings.Builder
	j := i + 1
	for j < len(text) {
		c := text[j]
		switch c {
		case '\\':
			if j+1 < len(text) {
				sb.WriteByte(text[j+1])
			}
			j += 2
		case quote:
			return sb.String(), true
		default:
			sb.WriteByte(c)
			j++
		}
	}
	return "", false
}

var testLabelRe = regexp.MustCompile(`(?i)([A-Za-z_][A-Za-z0-9_]*)\s+method\b`)

// featureLabel matches the title against the keyword vocabulary, falling
// back to the title's first word. Labels are deliberately approximate;
// they exist to feed the fuzzy cascade in FindMatch, not to identify
// blocks exactly.
func (p *Partitioner) featureLabel(title string) string {
	if title == "" {
		return ""
	}
	lower := strings.ToLower(title)
	for _, kw := range p.opts.FeatureKeywords {
		k := strings.ToLower(kw)
		if k != "" && strings.Contains(lower, k) {
			return k
		}
	}
	return firstWord(lower)
}

// testLabel extracts the identifier preceding the word "method" from the
// title, falling back to the title's first word.
func (p *Partitioner) testLabel(title string) string {
	if title == "" {
		return ""
	}
	if m := testLabelRe.FindStringSubmatch(title); m != nil {
		return strings.ToLower(m[1])
	}
	return firstWord(strings.ToLower(title))
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
