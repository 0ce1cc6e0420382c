// Package match ranks reference entries against a query.
// Jaccard over shingle sets is the ranking key; candidates inside the
// leader's epsilon band are additionally blended with token-order
// alignment so near-identical license families separate on structure
// instead of shared boilerplate vocabulary
package match

import (
	"sort"
	"sync"

	"licorice/internal/core/corpus"
	"licorice/internal/core/index"
	"licorice/internal/core/shingle"
	"licorice/internal/core/similarity"
)

// Defaults for Options fields left at zero
const (
	DefaultWorkers         = 4
	DefaultTieEpsilon      = 0.02
	DefaultAlignmentWeight = 0.25
)

// Candidate is one scored reference, transient per query
type Candidate struct {
	Entry *index.Entry

	// Jaccard is the raw shingle-set similarity in [0,1]
	Jaccard float64

	// Alignment is the token LCS ratio, computed only inside the
	// epsilon band (0 elsewhere)
	Alignment float64

	// Cosine is the tf-idf diagnostic, never a ranking key
	Cosine float64

	// Score is what the ranking sorts by: Jaccard, blended with
	// Alignment for epsilon-band finalists
	Score float64
}

// Options tunes the matcher, zero values take the defaults above
type Options struct {
	// Workers bounds scoring parallelism, 1 disables the pool
	Workers int

	// TieEpsilon is the width of the leader band that triggers
	// alignment blending and category-hint tie-breaking
	TieEpsilon float64

	// AlignmentWeight is the blend factor inside the band
	AlignmentWeight float64

	// AlignmentCap truncates token sequences before the LCS table
	AlignmentCap int
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.TieEpsilon <= 0 {
		o.TieEpsilon = DefaultTieEpsilon
	}
	if o.AlignmentWeight <= 0 {
		o.AlignmentWeight = DefaultAlignmentWeight
	}
	if o.AlignmentCap <= 0 {
		o.AlignmentCap = similarity.DefaultAlignmentCap
	}
	return o
}

// Matcher scores queries against one immutable index.
// Safe for concurrent use, all state is read-only
type Matcher struct {
	idx  *index.Index
	opts Options
}

// New constructs a Matcher over idx
func New(idx *index.Index, opts Options) *Matcher {
	return &Matcher{idx: idx, opts: opts.withDefaults()}
}

// Rank scores every candidate the index returns for the query and sorts
// them best first. hint is the lexical-signal category used to break
// epsilon-band ties, pass the zero Category for none. An empty query
// yields an empty ranking, never an error
func (m *Matcher) Rank(tokens []string, q shingle.Set, hint corpus.Category) []Candidate {
	if len(tokens) == 0 || q.Len() == 0 {
		return nil
	}
	entries := m.idx.Candidates(q)
	if len(entries) == 0 {
		return nil
	}

	out := make([]Candidate, len(entries))
	docs := m.idx.Len()

	score := func(i int) {
		e := entries[i]
		out[i] = Candidate{
			Entry:   e,
			Jaccard: similarity.Jaccard(q, e.Shingles),
			Cosine:  similarity.CosineTFIDF(tokens, e.Tokens, docs, m.idx.DocFreq),
		}
	}

	if m.opts.Workers > 1 && len(entries) > 1 {
		sem := make(chan struct{}, m.opts.Workers)
		wg := sync.WaitGroup{}
		for i := range entries {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int) {
				defer func() { <-sem; wg.Done() }()
				score(i)
			}(i)
		}
		wg.Wait()
	} else {
		for i := range entries {
			score(i)
		}
	}

	leader := 0.0
	for i := range out {
		if out[i].Jaccard > leader {
			leader = out[i].Jaccard
		}
	}

	// alignment is quadratic, so only the epsilon band pays for it.
	// banded candidates re-rank among themselves by the blended score but
	// never fall below the band, raw Jaccard already separates the blocks
	w := m.opts.AlignmentWeight
	for i := range out {
		c := &out[i]
		if leader-c.Jaccard <= m.opts.TieEpsilon {
			c.Alignment = similarity.AlignmentRatio(tokens, c.Entry.Tokens, m.opts.AlignmentCap)
			c.Score = (1-w)*c.Jaccard + w*c.Alignment
		} else {
			c.Score = c.Jaccard
		}
	}

	m.sortCandidates(out, leader, hint)
	return out
}

// sortCandidates orders the ranking: epsilon-band block first, then by
// score, then hint-category preference inside the band, then shorter
// canonical text, then name
func (m *Matcher) sortCandidates(cs []Candidate, leader float64, hint corpus.Category) {
	band := func(c Candidate) bool { return leader-c.Jaccard <= m.opts.TieEpsilon }
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		ab, bb := band(a), band(b)
		if ab != bb {
			return ab
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if ab && hint.Valid() {
			ah, bh := a.Entry.Category == hint, b.Entry.Category == hint
			if ah != bh {
				return ah
			}
		}
		if a.Entry.TokenLen() != b.Entry.TokenLen() {
			return a.Entry.TokenLen() < b.Entry.TokenLen()
		}
		return a.Entry.Name < b.Entry.Name
	})
}
