package render

import "unicode/utf8"

// DescriptionLimit is the number of characters of a description shown on a feed card.
const DescriptionLimit = 100

// Ellipsis marks a truncated description.
const Ellipsis = "..."

// Truncate shortens s to DescriptionLimit characters and appends Ellipsis.
// Descriptions within the limit are returned unchanged. Truncation counts
// runes and ignores word boundaries.
func Truncate(s string) string {
	if utf8.RuneCountInString(s) <= DescriptionLimit {
		return s
	}
	n := 0
	for i := range s {
		if n == DescriptionLimit {
			return s[:i] + Ellipsis
		}
		n++
	}
	return s
}
