package util

// TruncatePrefix keeps the first maxRunes runes of s. A non-positive limit returns s unchanged.
func TruncatePrefix(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}

// Excerpt is TruncatePrefix with an ellipsis when something was cut, for logs and error bodies.
func Excerpt(s string, maxRunes int) string {
	out := TruncatePrefix(s, maxRunes)
	if len(out) < len(s) {
		return out + "..."
	}
	return out
}
