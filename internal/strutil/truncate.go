// Package strutil provides string utility helpers shared across packages.
package strutil

// Ellipsis is the marker appended to a truncated string.
const Ellipsis = "…"

// Truncate truncates a string to a maximum rune length, appending the
// ellipsis marker only when truncation actually occurred. Rune-level
// truncation ensures Unicode safety for multi-byte characters.
// Returns empty string if maxLen <= 0 to prevent slice bounds panic.
func Truncate(s string, maxLen int) string {
	if s == "" || maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + Ellipsis
}
