package memory

import (
	"strings"
	"unicode"
)

// cleanGameboyTitle turns the raw header title into a printable string.
// NUL padding becomes spaces and is trimmed, anything non printable is
// replaced with '?'. Newer headers reuse the last title bytes for the
// manufacturer code and CGB flag, those are cut at the first NUL.
func cleanGameboyTitle(titleBytes []byte) string {
	runes := make([]rune, 0, len(titleBytes))

	for _, b := range titleBytes {
		r := rune(b)
		if r == 0 {
			break
		}
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			r = '?'
		}
		runes = append(runes, r)
	}

	title := strings.TrimSpace(string(runes))
	if title == "" {
		return "(Untitled)"
	}

	return title
}
