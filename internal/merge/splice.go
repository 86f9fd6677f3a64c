package merge

import "strings"

// ReplaceBlock returns a new file text with the target block's byte range
// replaced by newContent. Text outside the range is preserved; only the
// whitespace at the two seams is normalized to a single blank line.
// newContent is inserted verbatim. An out-of-range block is a caller bug
// and panics.
func ReplaceBlock(original string, block Block, newContent string) string {
	if block.Start < 0 || block.End > len(original) || block.Start >= block.End {
		panic("merge: block range out of bounds")
	}
	before := strings.TrimRight(original[:block.Start], " \t\r\n")
	after := strings.TrimLeft(original[block.End:], " \t\r\n")
	return before + "\n\n" + newContent + "\n\n" + after
}
