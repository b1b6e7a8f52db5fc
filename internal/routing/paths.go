// internal/routing/paths.go
//
// Slug and path helpers used before any store lookup.
//
// Notes
// -----
//   - Slugs are stored by the dashboard; the public side only rejects
//     shapes no stored slug can have, so a garbage path never costs a query.
//   - Lookups stay case-sensitive.
package routing

import "strings"

// MaxSlugLen is the longest slug the dashboard stores.
const MaxSlugLen = 100

// ValidSlug reports whether s is 1..MaxSlugLen bytes of ASCII letters,
// digits, '-' and '_'.
func ValidSlug(s string) bool {
	if len(s) == 0 || len(s) > MaxSlugLen {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool {
		return !(r == '-' || r == '_' ||
			('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9'))
	}) < 0
}

// BuildPath joins the non-empty segments with single slashes under a
// leading "/".
func BuildPath(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s = strings.Trim(s, "/"); s != "" {
			parts = append(parts, s)
		}
	}
	return "/" + strings.Join(parts, "/")
}
