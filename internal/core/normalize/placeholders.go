package normalize

import "regexp"

// Placeholder is one scrub rule applied to case-folded text before
// punctuation folding. Each match is replaced with a single space
type Placeholder struct {
	Name    string
	Pattern *regexp.Regexp
}

// Built-in scrub set. License templates carry fill-in markers and real
// license files carry the filled holder lines; both sides must collapse to
// the same tokens or a substituted copyright line would poison the shingles
var (
	// symbol forms of the copyright mark, trademark marks ride along
	reMarks = regexp.MustCompile(`\((?:c|tm|r)\)`)

	// bracketed or angled fill-ins such as [year] [fullname]
	// <owner> <name of author> <https://fsf.org/>
	// short spans only, never across lines
	reFillIns = regexp.MustCompile(`\[[^\[\]\n]{1,80}\]|<[^<>\n]{1,80}>`)

	// a calendar year, a template year like 19yy, or a range/list of either
	reYearLike = regexp.MustCompile(`\b(?:19|20)(?:[0-9]{2}|yy|xx)\b`)

	// everything from the word copyright to end of line
	// only reduced when the tail holds a year-like token, see scrubPlaceholders
	reCopyrightLine = regexp.MustCompile(`copyright[^\n]*`)
)

// scrubPlaceholders removes fill-in markers and holder lines from case-folded
// text. extra rules run after the built-ins in the order given
func scrubPlaceholders(s string, extra []Placeholder) string {
	if s == "" {
		return s
	}

	s = reMarks.ReplaceAllString(s, " ")
	s = reFillIns.ReplaceAllString(s, " ")

	// reduce "copyright 2019 jane doe" to "copyright"
	// a bare "copyright" or "copyright holders" line is left alone
	s = reCopyrightLine.ReplaceAllStringFunc(s, func(m string) string {
		if reYearLike.MatchString(m) {
			return "copyright"
		}
		return m
	})

	for _, p := range extra {
		if p.Pattern != nil {
			s = p.Pattern.ReplaceAllString(s, " ")
		}
	}
	return s
}
