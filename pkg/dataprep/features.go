package dataprep

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// tokens are runs of two or more letters, digits or underscores
var tokenPattern = regexp.MustCompile(`[\pL\pN_]{2,}`)

// Tokenize splits free-form text into word tokens. Combining marks are
// folded away (so "café" and "cafe" match) and, when lowercase is set, case
// is folded too.
func Tokenize(text string, lowercase bool) []string {
	// a transform.Chain holds state, so it is built per call
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(fold, text)
	if err != nil {
		s = text
	}
	if lowercase {
		s = strings.ToLower(s)
	}
	return tokenPattern.FindAllString(s, -1)
}

// NGrams returns every n-gram of tokens for n in [lo, hi], shortest first.
// Words inside an n-gram are joined by a single space.
func NGrams(tokens []string, lo, hi int) []string {
	if lo < 1 {
		lo = 1
	}
	var out []string
	for n := lo; n <= hi; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			if n == 1 {
				out = append(out, tokens[i])
				continue
			}
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}
