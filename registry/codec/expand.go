package codec

import "strings"

// expandWith replaces %NAME% references using lookup. Unknown names and an
// unterminated '%' are left untouched, matching ExpandEnvironmentStrings.
func expandWith(s string, lookup func(string) (string, bool)) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for {
		start := strings.IndexByte(s, '%')
		if start < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:start])
		rest := s[start+1:]
		end := strings.IndexByte(rest, '%')
		if end < 0 {
			b.WriteString(s[start:])
			return b.String()
		}
		name := rest[:end]
		if v, ok := lookup(name); ok && name != "" {
			b.WriteString(v)
			s = rest[end+1:]
			continue
		}
		// The closing '%' may open the next reference.
		b.WriteByte('%')
		b.WriteString(name)
		s = rest[end:]
	}
}
