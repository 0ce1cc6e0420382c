// Package normalize provides a deterministic text normalizer used by the matcher
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFKD decomposition
// 3 Case folding
// 4 Remove zero-width and combining marks
// 5 Width fold fullwidth to ASCII
// 6 Scrub boilerplate placeholders eg [year] <owner> and copyright holder lines
// 7 Fold punctuation to spaces keeping letters and digits
// 8 Optional Porter2 stemming per token
// 9 Collapse whitespace to single spaces and trim
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"github.com/surgebase/porter2"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Options tunes the normalizer
// the zero value gives the default pipeline with stemming enabled
type Options struct {
	// DisableStemming skips the Porter2 pass
	// corpora tuned on surface forms set this
	DisableStemming bool

	// ExtraPlaceholders are scrub patterns applied after the built-in set
	// each match is replaced with a single space before punctuation folding
	ExtraPlaceholders []Placeholder
}

// Normalizer is concurrency safe when used with the pool below
type Normalizer struct {
	opts Options
}

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		// NFKD so combining marks are split out before the Mn strip
		return transform.Chain(
			norm.NFKD,
			cases.Fold(),                       // unicode case folding
			runes.Remove(runes.In(unicode.Mn)), // strip combining marks
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
			width.Fold,                         // map fullwidth forms to ASCII
		)
	},
}

// New constructs a Normalizer with default options
func New() *Normalizer { return NewWithOptions(Options{}) }

// NewWithOptions constructs a Normalizer with the given options
func NewWithOptions(opts Options) *Normalizer { return &Normalizer{opts: opts} }

// Normalize returns the normalized form of s following the pipeline described above
// empty input yields empty output
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = Sanitize(s)

	// 1 repair UTF-8 drop invalid bytes
	s = strings.ToValidUTF8(s, "")

	// 2-5 transform via pooled chain then reset and return it
	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	// 6 scrub fill-in placeholders and holder lines while line structure is intact
	ns = scrubPlaceholders(ns, n.opts.ExtraPlaceholders)

	// 7 fold punctuation to spaces
	ns = foldPunct(ns)

	// 8 optional stemming
	if !n.opts.DisableStemming {
		ns = stemTokens(ns)
	}

	// 9 collapse whitespace and trim
	ns = collapseSpaces(ns)

	return ns
}

// foldPunct replaces every rune that is not a letter or digit with a space
// section numbers survive as bare digits eg "2.1" -> "2 1"
func foldPunct(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// stemTokens applies Porter2 to plain ASCII alphabetic tokens
// tokens with digits or non-ASCII letters pass through untouched
func stemTokens(s string) string {
	if s == "" {
		return s
	}
	fields := strings.Fields(s)
	for i, tok := range fields {
		if len(tok) > 2 && isASCIIAlpha(tok) {
			fields[i] = porter2.Stem(tok)
		}
	}
	return strings.Join(fields, " ")
}

func isASCIIAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

// collapseSpaces converts whitespace runs to a single ASCII space and trims the edges
// line structure is already gone by the time this runs
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
