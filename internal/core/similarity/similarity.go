// Package similarity holds the pure scoring functions the matcher combines.
// Every function here is deterministic and safe to call from parallel
// workers, no state is shared
package similarity

import (
	"math"
	"sort"

	"licorice/internal/core/shingle"
)

// DefaultAlignmentCap bounds the LCS table. License texts run a few
// thousand tokens at most and the head carries the discriminating
// structure, so capping keeps the quadratic table affordable
const DefaultAlignmentCap = 800

// Jaccard scores two shingle sets as intersection over union, in [0,1].
// Symmetric, 1.0 for identical non-empty sets. Two empty sets score 0,
// empty input means no match rather than a perfect one
func Jaccard(a, b shingle.Set) float64 {
	u := shingle.Union(a, b)
	if u == 0 {
		return 0
	}
	return float64(shingle.Intersection(a, b)) / float64(u)
}

// AlignmentRatio scores token-order agreement as longest common
// subsequence length over the longer sequence, in [0,1]. Shared legal
// boilerplate inflates set similarity between unrelated licenses but
// rarely lines up in order, which is what this catches. Sequences are
// truncated to limit tokens (DefaultAlignmentCap when limit <= 0)
func AlignmentRatio(a, b []string, limit int) float64 {
	if limit <= 0 {
		limit = DefaultAlignmentCap
	}
	if len(a) > limit {
		a = a[:limit]
	}
	if len(b) > limit {
		b = b[:limit]
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// two-row LCS table
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}

	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	return float64(prev[len(b)]) / float64(longer)
}

// CosineTFIDF scores term-frequency overlap between two token sequences,
// weighting each term by smoothed inverse document frequency from the
// reference index (docs entries total, df per token). Corroborating
// diagnostic only, the matcher never ranks by it
func CosineTFIDF(q, e []string, docs int, df func(string) int) float64 {
	if len(q) == 0 || len(e) == 0 || docs <= 0 {
		return 0
	}

	qtf := termFreq(q)
	etf := termFreq(e)

	idf := func(tok string) float64 {
		return math.Log(float64(1+docs)/float64(1+df(tok))) + 1
	}

	// sorted iteration keeps float accumulation order-stable across calls
	dot := 0.0
	for _, tok := range sortedKeys(qtf) {
		if etf[tok] == 0 {
			continue
		}
		w := idf(tok)
		dot += float64(qtf[tok]) * w * float64(etf[tok]) * w
	}
	if dot == 0 {
		return 0
	}

	qn := norm(qtf, idf)
	en := norm(etf, idf)
	if qn == 0 || en == 0 {
		return 0
	}
	return dot / (qn * en)
}

func termFreq(toks []string) map[string]int {
	tf := make(map[string]int, len(toks))
	for _, t := range toks {
		tf[t]++
	}
	return tf
}

func norm(tf map[string]int, idf func(string) float64) float64 {
	sum := 0.0
	for _, tok := range sortedKeys(tf) {
		w := float64(tf[tok]) * idf(tok)
		sum += w * w
	}
	return math.Sqrt(sum)
}

func sortedKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
