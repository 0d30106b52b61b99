package gatherer

import (
	"strings"
)

// TrimStrToRect cuts s to at most maxHeight lines of at most maxWidth runes each.
func TrimStrToRect(s string, maxHeight int, maxWidth int) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	cut := len(lines) > maxHeight
	if cut {
		lines = lines[:maxHeight]
	}

	var res strings.Builder
	for i, line := range lines {
		if i > 0 {
			res.WriteByte('\n')
		}
		if short := CutRunes(line, maxWidth); len(short) < len(line) {
			res.WriteString(short + "[...]")
		} else {
			res.WriteString(line)
		}
	}
	if cut {
		res.WriteString("\n[...]")
	}
	return res.String()
}

// CutRunes returns the prefix of s holding at most n runes.
func CutRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}
