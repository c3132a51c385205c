package catalog

import (
	"regexp"
	"strings"
)

// slug: huruf kecil, angka, dan tanda hubung di antaranya.
var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func ValidSlug(s string) bool { return slugRegex.MatchString(s) }

// GenerateSlug turunkan slug dari nama kategori.
func GenerateSlug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastHyphen := true // leading hyphen di-skip
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
