// Package utils provides shared text and logging utilities.
package utils

// Truncate returns s truncated to maxLen characters, with "..." appended if
// truncated. Counts characters (runes), not bytes, so multi-byte input is
// never sliced mid-rune. The marker is not counted against maxLen. If maxLen
// is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	// Byte length is an upper bound on rune count.
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
