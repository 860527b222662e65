package scraper

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// cleanText collapses whitespace, drops invisible format characters
// (zero-width spaces, soft hyphens) and composes to NFC so the same
// accented text always stores the same bytes.
func cleanText(str string) string {
	str = whitespaceRun.ReplaceAllString(str, " ")
	t := transform.Chain(runes.Remove(runes.In(unicode.Cf)), norm.NFC)
	result, _, err := transform.String(t, str)
	if err != nil {
		result = str
	}
	return strings.TrimSpace(result)
}
