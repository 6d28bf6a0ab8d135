package service

import (
	"regexp"
	"strings"
)

// Citation patterns stripped from extracted page text. This is a
// best-effort lexical cleanup, not a citation parser: only these three
// forms are recognized.
var (
	bracketCitationPattern = regexp.MustCompile(`\[\d+(,\s?\d+)*\]`)
	authorYearPattern      = regexp.MustCompile(`\([A-Za-z]+ et al\.,? \d{4}\)`)
	doiPattern             = regexp.MustCompile(`doi:\s?\S+`)
	extraWhitespacePattern = regexp.MustCompile(`\s{2,}`)
)

// CleanCitations removes bracketed numeric citations ("[3]", "[3, 4]"),
// parenthetical author-year citations ("(Smith et al., 2021)"), and DOI
// tokens ("doi:10.1234/abc") from text, then collapses whitespace runs
// and trims. Markers are removed before the whitespace pass so the gaps
// they leave collapse to a single space.
func CleanCitations(text string) string {
	text = bracketCitationPattern.ReplaceAllString(text, "")
	text = authorYearPattern.ReplaceAllString(text, "")
	text = doiPattern.ReplaceAllString(text, "")
	text = extraWhitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
