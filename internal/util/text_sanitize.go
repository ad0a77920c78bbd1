package util

import "strings"

// SanitizeText removes NUL bytes and control characters that PDF text extraction emits,
// keeping newlines, carriage returns and tabs. Form feeds and vertical tabs, which mark page
// and column breaks, become newlines so the words on either side stay apart.
func SanitizeText(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\x00", "")

	r := make([]rune, 0, len(s))
	for _, ch := range s {
		if ch == '\f' || ch == '\v' {
			r = append(r, '\n')
			continue
		}
		if ch == '\n' || ch == '\r' || ch == '\t' {
			r = append(r, ch)
			continue
		}
		if ch < 0x20 {
			continue
		}
		r = append(r, ch)
	}
	return strings.TrimSpace(string(r))
}
