package prompts

import (
	"regexp"
	"strings"
)

// Matches reports whether s is one of the strings the template can expand
// to, i.e. every group in s was filled with one of its declared options.
func (t *Template) Matches(s string) bool {
	re, err := regexp.Compile(`(?s)\A(?:` + pattern(t.root) + `)\z`)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

// pattern builds a regexp accepting exactly the strings s can produce.
func pattern(s sequence) string {
	var b strings.Builder
	for _, n := range s {
		switch v := n.(type) {
		case text:
			b.WriteString(regexp.QuoteMeta(string(v)))
		case choice:
			b.WriteString("(?:")
			for i, alt := range v {
				if i > 0 {
					b.WriteByte('|')
				}
				b.WriteString(pattern(alt))
			}
			b.WriteByte(')')
		}
	}
	return b.String()
}
