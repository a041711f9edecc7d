package utils

// Truncate shortens s to at most maxLen runes, appending "..." when cut.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}

// MaskToken hides all but the last four characters of a bearer token so it
// can be shown in status output and debug logs.
func MaskToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}
