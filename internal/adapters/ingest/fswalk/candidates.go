package fswalk

import "strings"

// license file base names seen in the wild, matched case-insensitively
var candidateBases = map[string]struct{}{
	"license":   {},
	"licence":   {},
	"copying":   {},
	"copyright": {},
	"legal":     {},
	"notice":    {},
	"unlicense": {},
}

// candidateExts are the extensions a candidate base may carry
var candidateExts = map[string]struct{}{
	"":     {},
	".md":  {},
	".txt": {},
	".rst": {},
}

// IsCandidate reports whether a bare file name looks like a license file.
// Besides the exact base x extension matrix it accepts hyphenated variants
// like MIT-LICENSE, LICENSE-APACHE-2.0 or COPYING.LESSER
func IsCandidate(name string) bool {
	lower := strings.ToLower(name)

	base := lower
	if i := strings.LastIndexByte(lower, '.'); i >= 0 {
		if _, ok := candidateExts[lower[i:]]; ok {
			base = lower[:i]
		}
	}

	if _, ok := candidateBases[base]; ok {
		return true
	}

	// hyphen/dot variants: any segment equal to a known base
	for _, seg := range strings.FieldsFunc(base, func(r rune) bool { return r == '-' || r == '.' || r == '_' }) {
		if _, ok := candidateBases[seg]; ok {
			return true
		}
	}
	return false
}
