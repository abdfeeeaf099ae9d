// Package urlquote percent-encodes strings using only the RFC 3986
// unreserved set (ALPHA / DIGIT / "-" / "." / "_" / "~") as literal
// characters, plus an optional set of extra safe bytes.
//
// net/url's PathEscape leaves sub-delimiters such as "&", "=" and "+"
// unescaped, which breaks links whose targets are themselves query strings
// embedded in a URL fragment. Every other byte, including multi-byte UTF-8
// sequences, is written as an upper-case %XX escape.
package urlquote

import "strings"

const upperhex = "0123456789ABCDEF"

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}

// Quote percent-encodes s, leaving unreserved characters and any byte in safe intact.
func Quote(s, safe string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) || strings.IndexByte(safe, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

// Path percent-encodes s, keeping "/" separators.
func Path(s string) string {
	return Quote(s, "/")
}

// Component percent-encodes s, including "/".
func Component(s string) string {
	return Quote(s, "")
}
