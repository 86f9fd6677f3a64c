package merge

// NotFound is the sentinel returned when a block boundary cannot be
// determined.
const NotFound = -1

// FindBlockEnd returns the offset one past the end of the block whose
// group-opening token starts at start. The scan tracks parenthesis depth
// until the block body's opening brace is found, then brace depth until
// the body closes, and finally consumes the closers of the opening call
// (trailing ')' and an optional ';').
//
// Returns NotFound when no body brace exists or the body never closes.
// A negative start is a caller bug and panics; data-driven edge cases
// never do.
func FindBlockEnd(text string, start int) int {
	if start < 0 {
		panic("merge: negative start offset")
	}
	if start >= len(text) {
		return NotFound
	}

	parenDepth := 0
	sawParen := false
	argsClosed := false
	bodyStart := -1
	braceDepth := 0
	bodyEnd := -1
	malformed := false

	scanCode(text, start, func(i int, c byte) bool {
		if bodyStart < 0 {
			switch c {
			case '(':
				parenDepth++
				sawParen = true
			case ')':
				parenDepth--
				if sawParen && parenDepth == 0 {
					argsClosed = true
				}
			case '{':
				bodyStart = i
				braceDepth = 1
			default:
				// Once the argument list has closed, only whitespace may
				// precede the body brace.
				if argsClosed && !isSpace(c) {
					malformed = true
					return false
				}
			}
			return true
		}

		switch c {
		case '(':
			parenDepth++
		case ')':
			parenDepth--
		case '{':
			braceDepth++
		case '}':
			braceDepth--
			if braceDepth == 0 {
				bodyEnd = i + 1
				return false
			}
		}
		return true
	})

	if malformed || bodyEnd < 0 {
		return NotFound
	}

	// Consume the closers of the group-opening call: any ')' still open,
	// then an optional ';'. Whitespace between them stays inside the block.
	j := bodyEnd
	for parenDepth > 0 {
		k := j
		for k < len(text) && isSpace(text[k]) {
			k++
		}
		if k < len(text) && text[k] == ')' {
			parenDepth--
			j = k + 1
			continue
		}
		break
	}
	if j < len(text) && text[j] == ';' {
		j++
	}
	return j
}
