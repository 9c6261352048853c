// Package textfmt renders raw payloads for human inspection.
//
// Asset payloads are arbitrary bytes. The helpers here turn them into
// terminal-safe text: byte-string literals with escapes, UTF-8 text with
// undecodable sequences dropped, and prefix truncation by character or byte.
package textfmt

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

const hexDigits = "0123456789abcdef"

// BytesLiteral renders b as a byte-string literal such as b'ab\x00\n'.
//
// Printable ASCII is kept verbatim, tab, newline, carriage return and
// backslash use their short escapes, everything else becomes \xNN. The
// literal is delimited by single quotes unless the data contains a single
// quote and no double quote.
func BytesLiteral(b []byte) string {
	quote := byte('\'')
	if bytes.IndexByte(b, '\'') >= 0 && bytes.IndexByte(b, '"') < 0 {
		quote = '"'
	}

	var sb strings.Builder
	sb.Grow(len(b) + 3)
	sb.WriteByte('b')
	sb.WriteByte(quote)
	for _, c := range b {
		switch {
		case c == quote || c == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c == '\t':
			sb.WriteString(`\t`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c < ' ' || c >= 0x7f:
			sb.WriteString(`\x`)
			sb.WriteByte(hexDigits[c>>4])
			sb.WriteByte(hexDigits[c&0x0f])
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte(quote)
	return sb.String()
}

// LossyUTF8 decodes b as UTF-8, silently dropping invalid sequences.
func LossyUTF8(b []byte) string {
	return strings.ToValidUTF8(string(b), "")
}

// TruncateRunes returns at most n characters of s.
// A negative n returns s unchanged.
func TruncateRunes(s string, n int) string {
	if n < 0 || len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// TruncateBytes returns at most n bytes of b.
// A negative n returns b unchanged.
func TruncateBytes(b []byte, n int) []byte {
	if n < 0 || len(b) <= n {
		return b
	}
	return b[:n]
}

// RuneLen returns the number of characters in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

