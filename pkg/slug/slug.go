package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9]+`)
)

// Make derives a URL-safe slug from raw input: whitespace runs become
// hyphens, accents are folded to ASCII, the result is lowercased, and runs of
// non-alphanumeric characters collapse to single hyphens. Pure and
// deterministic; applying it twice yields the same value.
func Make(input string) string {
	s := whitespaceRe.ReplaceAllString(strings.TrimSpace(input), "-")
	s = foldASCII(s)
	s = strings.ToLower(s)
	s = nonAlnumRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// foldASCII decomposes accented characters and drops combining marks plus any
// remaining non-ASCII runes.
func foldASCII(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
	)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}
