package services

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/go-authgate/eventgate/internal/forms"
)

const fallbackSlug = "event"

// Slugify derives a URL slug from a title: lower-case ASCII letters and digits,
// every other run of characters becomes one "-", trimmed to MaxSlugLength.
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}

	slug := trimSlug(b.String(), forms.MaxSlugLength)
	if slug == "" {
		return fallbackSlug
	}
	return slug
}

// uniqueSlug returns base, or base-N for the smallest N >= 2 such that the
// result is a valid slug not present in taken.
func uniqueSlug(base string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, s := range taken {
		used[s] = struct{}{}
	}

	if _, ok := used[base]; !ok && forms.ValidSlug(base) {
		return base
	}

	for n := 2; ; n++ {
		suffix := "-" + strconv.Itoa(n)
		candidate := trimSlug(base, forms.MaxSlugLength-len(suffix)) + suffix
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}

func trimSlug(s string, n int) string {
	if len(s) > n {
		s = s[:n]
	}
	return strings.Trim(s, "-")
}
