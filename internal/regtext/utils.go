package regtext

import (
	"errors"
	"fmt"
	"strings"
)

// unescapeRegString undoes the \\ and \" escapes of quoted .reg strings.
func unescapeRegString(s string) string {
	if strings.IndexByte(s, '\\') == -1 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '"') {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// escapeString is the inverse of unescapeRegString.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, Backslash, EscapedBackslash)
	return strings.ReplaceAll(s, Quote, EscapedQuote)
}

// findClosingQuote returns the index of the quote closing the one at index 0,
// skipping quotes escaped by an odd run of backslashes, or -1.
func findClosingQuote(line string) int {
	for i := 1; i < len(line); i++ {
		if line[i] != '"' {
			continue
		}
		backslashes := 0
		for j := i - 1; j >= 1 && line[j] == '\\'; j-- {
			backslashes++
		}
		if backslashes%2 == 0 {
			return i
		}
	}
	return -1
}

// parseHexBytes parses the comma-separated bytes after the colon of a hex
// payload. Whitespace is ignored and single-digit bytes are zero-padded.
func parseHexBytes(payload string) ([]byte, error) {
	colon := strings.IndexByte(payload, ':')
	if colon == -1 {
		return nil, errors.New("invalid hex data: missing colon")
	}
	body := payload[colon+1:]

	out := make([]byte, 0, len(body)/3+1)
	for part := range strings.SplitSeq(body, HexByteSeparator) {
		part = strings.TrimSpace(part)
		switch len(part) {
		case 0:
			continue
		case 1, 2:
		default:
			return nil, fmt.Errorf("invalid hex byte %q", part)
		}
		hi, lo := byte(0), hexNibble(part[len(part)-1])
		if len(part) == 2 {
			hi = hexNibble(part[0])
		}
		if hi == 0xFF || lo == 0xFF {
			return nil, fmt.Errorf("invalid hex byte %q", part)
		}
		out = append(out, hi<<4|lo)
	}
	return out, nil
}

// hexNibble converts a hex digit to its value, or 0xFF.
func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0xFF
	}
}
