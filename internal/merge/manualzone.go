package merge

import (
	"regexp"
	"strings"
)

// Manual zone markers. The text between them is hand-authored and must
// survive regeneration verbatim. One zone per file; only the first
// occurrence is recognized.
const (
	ManualZoneStart = "/* <MANUAL_ZONE> */"
	ManualZoneEnd   = "/* </MANUAL_ZONE> */"
)

// ExtractManualZone returns the trimmed text between the first start
// marker and the first end marker after it. A lone marker, or an end
// marker before the start marker, yields no zone: misreading stray
// marker-like text would corrupt files that never had a zone.
func ExtractManualZone(text string) (string, bool) {
	i := strings.Index(text, ManualZoneStart)
	if i < 0 {
		return "", false
	}
	rest := text[i+len(ManualZoneStart):]
	j := strings.Index(rest, ManualZoneEnd)
	if j < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:j]), true
}

var requireLineRe = regexp.MustCompile(`^(const|let|var)\s+.*\brequire\s*\(`)

// EnsureManualZone re-injects a previously extracted zone when the
// regenerated text lost its markers, reporting whether it did so.
// Presence of the start marker is the sole check; no content diffing is
// attempted. The zone is inserted before the first line that is neither
// blank nor a header line (a comment or an import-like statement), or
// appended when no such line exists. An empty zone is still a zone: the
// marker pair is restored so the slot survives. Callers that extracted
// no zone at all must not call this.
func EnsureManualZone(regenerated, zone string) (string, bool) {
	if strings.Contains(regenerated, ManualZoneStart) {
		return regenerated, false
	}

	block := ManualZoneStart + "\n" + zone + "\n" + ManualZoneEnd

	lines := strings.Split(regenerated, "\n")
	insert := -1
	for i, line := range lines {
		t := strings.TrimSpace(line)
		if t == "" || isHeaderLine(t) {
			continue
		}
		insert = i
		break
	}
	if insert < 0 {
		return strings.TrimRight(regenerated, "\n") + "\n\n" + block + "\n", true
	}

	out := make([]string, 0, len(lines)+2)
	out = append(out, lines[:insert]...)
	out = append(out, block, "")
	out = append(out, lines[insert:]...)
	return strings.Join(out, "\n"), true
}

// isHeaderLine reports whether a trimmed line belongs to the file
// preamble: a comment or an import-like statement.
func isHeaderLine(trimmed string) bool {
	if strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "/*") ||
		strings.HasPrefix(trimmed, "*") {
		return true
	}
	if strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "import{") {
		return true
	}
	return requireLineRe.MatchString(trimmed)
}
