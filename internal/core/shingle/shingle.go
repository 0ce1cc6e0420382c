// Package shingle turns normalized text into token sequences and hashed
// k-token window sets for set similarity scoring
package shingle

import (
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DefaultK is the window width used when callers pass k <= 0
const DefaultK = 5

// sep keeps "ab c" and "a bc" windows from hashing alike
var sep = []byte{0x1f}

// Set is an immutable bag of hashed k-token windows built once per text
type Set struct {
	k      int
	hashes map[uint64]struct{}
}

// Tokenize splits normalized text into its whitespace-delimited tokens
// order is preserved for alignment scoring
func Tokenize(norm string) []string {
	if norm == "" {
		return nil
	}
	return strings.Fields(norm)
}

// Build hashes every k-token window of tokens into a Set
// sequences shorter than k yield a single shingle over the whole sequence
// an empty sequence yields an empty Set
func Build(tokens []string, k int) Set {
	if k <= 0 {
		k = DefaultK
	}
	s := Set{k: k, hashes: make(map[uint64]struct{}, max(len(tokens)-k+1, 1))}
	if len(tokens) == 0 {
		return s
	}
	if len(tokens) < k {
		s.hashes[hashWindow(tokens)] = struct{}{}
		return s
	}
	for i := 0; i+k <= len(tokens); i++ {
		s.hashes[hashWindow(tokens[i:i+k])] = struct{}{}
	}
	return s
}

func hashWindow(win []string) uint64 {
	d := xxhash.New()
	for i, t := range win {
		if i > 0 {
			_, _ = d.Write(sep)
		}
		_, _ = d.WriteString(t)
	}
	return d.Sum64()
}

// K reports the window width the Set was built with
func (s Set) K() int { return s.k }

// Len reports the number of distinct shingles
func (s Set) Len() int { return len(s.hashes) }

// Contains reports whether h is in the Set
func (s Set) Contains(h uint64) bool {
	_, ok := s.hashes[h]
	return ok
}

// Hashes returns the shingle hashes in ascending order
// sorted so index builds iterate deterministically
func (s Set) Hashes() []uint64 {
	out := make([]uint64, 0, len(s.hashes))
	for h := range s.hashes {
		out = append(out, h)
	}
	slices.Sort(out)
	return out
}

// Intersection counts shingles present in both sets
func Intersection(a, b Set) int {
	small, big := a.hashes, b.hashes
	if len(big) < len(small) {
		small, big = big, small
	}
	n := 0
	for h := range small {
		if _, ok := big[h]; ok {
			n++
		}
	}
	return n
}

// Union counts shingles present in either set
func Union(a, b Set) int {
	return a.Len() + b.Len() - Intersection(a, b)
}
