package board

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"unicode"
)

// generateID creates a slug from the title plus a random suffix.
func generateID(title string) string {
	slug := slugify(title)
	if len(slug) > 15 {
		slug = strings.TrimRight(slug[:15], "-")
	}
	if slug == "" {
		return randomHex(4)
	}
	return slug + "-" + randomHex(3)
}

func slugify(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	prevDash := false
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			prevDash = false
		} else if !prevDash && b.Len() > 0 {
			b.WriteByte('-')
			prevDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func randomHex(n int) string {
	b := make([]byte, n)
	rand.Read(b)
	return hex.EncodeToString(b)
}
