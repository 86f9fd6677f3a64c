package merge

import "strings"

// Block is one top-level test group: its exact text and the half-open
// byte range it occupies in the source file. Labels are heuristic,
// derived from the block title, and are not required to be unique.
type Block struct {
	Content      string
	Start        int
	End          int
	Title        string
	FeatureLabel string
	TestLabel    string
}

// ParsedFile is the result of partitioning one test file. Header is the
// trimmed text before the first block, Footer the trimmed text after the
// last. Blocks appear in file order. When no blocks were found, Header
// and Footer are empty and the caller falls back to whole-file mode.
type ParsedFile struct {
	Header string
	Blocks []Block
	Footer string
}

// Reconstruct reassembles the file from its parts with normalized seams.
// Exact whitespace between parts is not preserved; everything else is.
func (p *ParsedFile) Reconstruct() string {
	parts := make([]string, 0, len(p.Blocks)+2)
	if p.Header != "" {
		parts = append(parts, p.Header)
	}
	for _, b := range p.Blocks {
		parts = append(parts, b.Content)
	}
	if p.Footer != "" {
		parts = append(parts, p.Footer)
	}
	return strings.Join(parts, "\n\n") + "\n"
}
