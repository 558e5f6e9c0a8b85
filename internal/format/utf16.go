package format

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// utf16LE is the registry string encoding: little-endian, no BOM.
var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// EncodeUTF16 encodes s as UTF-16LE. No terminator is added.
func EncodeUTF16(s string) ([]byte, error) {
	if isASCIIString(s) {
		out := make([]byte, len(s)*UTF16UnitSize)
		for i := 0; i < len(s); i++ {
			out[i*UTF16UnitSize] = s[i]
		}
		return out, nil
	}
	return utf16LE.NewEncoder().Bytes([]byte(s))
}

// DecodeUTF16 decodes UTF-16LE bytes into a UTF-8 string. Unlike a lenient
// decoder it rejects odd-length input and unpaired surrogates instead of
// substituting U+FFFD. Embedded NULs are preserved.
func DecodeUTF16(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	if len(data)%UTF16UnitSize != 0 {
		return "", ErrOddLength
	}

	// Fast path: all code units ASCII ([byte, 0x00])
	allASCII := true
	for i := 0; i < len(data); i += 2 {
		if data[i+1] != 0 || data[i] >= UTF16ASCIIThreshold {
			allASCII = false
			break
		}
	}
	if allASCII {
		var b strings.Builder
		b.Grow(len(data) / 2)
		for i := 0; i < len(data); i += 2 {
			b.WriteByte(data[i])
		}
		return b.String(), nil
	}

	if err := validateSurrogates(data); err != nil {
		return "", err
	}
	out, err := utf16LE.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// UnitLen returns the length of s in UTF-16 code units, which is how the
// registry measures name lengths.
func UnitLen(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
			continue
		}
		n++
	}
	return n
}

// FitUnits returns the longest prefix of s that fits in a buffer of capacity
// UTF-16 code units together with a terminating NUL. ok is false when s had
// to be cut.
func FitUnits(s string, capacity int) (prefix string, ok bool) {
	units := 0
	for i, r := range s {
		w := 1
		if r >= 0x10000 {
			w = 2
		}
		if units+w >= capacity {
			return s[:i], false
		}
		units += w
	}
	return s, true
}

func validateSurrogates(data []byte) error {
	for i := 0; i+1 < len(data); i += 2 {
		u := uint16(data[i]) | uint16(data[i+1])<<8
		switch {
		case u >= 0xD800 && u <= 0xDBFF:
			if i+3 >= len(data) {
				return ErrBadSurrogate
			}
			lo := uint16(data[i+2]) | uint16(data[i+3])<<8
			if lo < 0xDC00 || lo > 0xDFFF {
				return ErrBadSurrogate
			}
			i += 2
		case u >= 0xDC00 && u <= 0xDFFF:
			return ErrBadSurrogate
		}
	}
	return nil
}

func isASCIIString(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= UTF16ASCIIThreshold {
			return false
		}
	}
	return true
}
