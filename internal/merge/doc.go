// Package merge implements the incremental test-block engine: it
// partitions a generated test file into discrete test.describe blocks,
// locates the block a regeneration targets, splices replacement content
// over exactly that block, and protects a marker-delimited manual-edit
// zone across regeneration.
//
// The engine is a structural scanner, not a parser. Block boundaries are
// found by paren/brace depth counting over a span lexer that skips string
// literals and comments. Regular-expression literals are not understood:
// an unbalanced brace inside /.../ can still confuse the scan. All
// functions are pure and safe for concurrent use.
package merge
