// Package alphabet defines the byte alphabet strings must stay within to be
// emitted without JSON escaping.
package alphabet

// Unsafe returns the offset of the first byte in s that would need escaping
// inside a JSON string, or -1 if there is none. Non-ASCII bytes count as
// unsafe: the emitted document is ASCII only.
func Unsafe(s string) int {
	for i := 0; i < len(s); i++ {
		if !Safe(s[i]) {
			return i
		}
	}
	return -1
}

// Safe reports whether b can appear verbatim inside a JSON string.
func Safe(b byte) bool {
	return b >= 0x20 && b < 0x80 && b != '"' && b != '\\'
}
