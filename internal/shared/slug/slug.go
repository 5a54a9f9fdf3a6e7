// Package slug turns product, model and color names into file-safe names.
package slug

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// FromName lowercases s, drops diacritics and joins its letter/digit runs
// with "-". fallback is returned when nothing usable remains.
func FromName(s, fallback string) string {
	var b strings.Builder
	dash := false
	for _, r := range norm.NFD.String(s) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(unicode.ToLower(r))
		default:
			dash = true
		}
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}

// Filename is FromName plus the lowercased extension of stored.
func Filename(name, fallback, stored string) string {
	return FromName(name, fallback) + strings.ToLower(path.Ext(stored))
}
