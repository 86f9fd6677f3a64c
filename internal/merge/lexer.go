package merge

import "strings"

// scanCode walks text from start and calls fn for every byte that sits
// outside string literals and comments. String and comment delimiters are
// not reported. fn returns false to stop the walk. The byte at start is
// assumed to be outside any literal.
func scanCode(text string, start int, fn func(i int, c byte) bool) {
	i := start
	for i < len(text) {
		c := text[i]
		switch c {
		case '/':
			if i+1 < len(text) && (text[i+1] == '/' || text[i+1] == '*') {
				i = skipComment(text, i)
				continue
			}
			if !fn(i, c) {
				return
			}
			i++
		case '\'', '"', '`':
			i = skipString(text, i)
		default:
			if !fn(i, c) {
				return
			}
			i++
		}
	}
}

// skipString returns the offset just past the string literal opening at i.
// Single- and double-quoted strings end at an unescaped newline as well,
// so one bad quote cannot poison the rest of the file.
func skipString(text string, i int) int {
	quote := text[i]
	j := i + 1
	for j < len(text) {
		switch text[j] {
		case '\\':
			j += 2
		case quote:
			return j + 1
		case '\n':
			if quote != '`' {
				return j + 1
			}
			j++
		default:
			j++
		}
	}
	return j
}

// skipComment returns the offset just past the comment opening at i.
// For line comments the terminating newline is left unconsumed.
func skipComment(text string, i int) int {
	if text[i+1] == '/' {
		if j := strings.IndexByte(text[i:], '\n'); j >= 0 {
			return i + j
		}
		return len(text)
	}
	if j := strings.Index(text[i+2:], "*/"); j >= 0 {
		return i + 2 + j + 2
	}
	return len(text)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
