package merge

import "strings"

// TrimToBlockStart drops any preamble a generator emitted before the
// first group-opening token, so the replacement starts with a block.
// Returns false when the token never occurs; the reply is then unusable
// for incremental mode. An empty token selects DefaultGroupToken.
func TrimToBlockStart(generated, token string) (string, bool) {
	if token == "" {
		token = DefaultGroupToken
	}
	idx := strings.Index(generated, token)
	if idx < 0 {
		return generated, false
	}
	return generated[idx:], true
}

// StripCodeFences removes a surrounding markdown code fence, which
// generation backends regularly wrap replies in.
func StripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return text
	}
	// Drop the opening fence line (``` or ```lang).
	nl := strings.IndexByte(trimmed, '\n')
	if nl < 0 {
		return text
	}
	body := trimmed[nl+1:]
	if i := strings.LastIndex(body, "```"); i >= 0 {
		body = body[:i]
	}
	return strings.TrimRight(body, " \t\r\n") + "\n"
}
