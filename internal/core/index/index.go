// Package index builds the immutable reference structure the matcher queries.
// An Index is constructed once from a validated corpus and never mutated;
// rebuilds produce a new Index the catalog swaps in atomically
package index

import (
	"fmt"
	"sort"
	"strings"

	"licorice/internal/core/corpus"
	"licorice/internal/core/normalize"
	"licorice/internal/core/shingle"
)

// DefaultExhaustiveLimit is the corpus size up to which Candidates scores
// exhaustively instead of prefiltering. License corpora are hundreds of
// entries at most, so the prefilter normally never engages
const DefaultExhaustiveLimit = 512

// Options tunes index construction.
// The classifier passes the same options it queries with so reference and
// query texts pass through an identical pipeline
type Options struct {
	// K is the shingle window width, <= 0 means shingle.DefaultK
	K int

	// Normalizer preprocesses reference texts, nil means normalize.New()
	Normalizer *normalize.Normalizer

	// ExhaustiveLimit overrides DefaultExhaustiveLimit when > 0
	ExhaustiveLimit int
}

// Entry is one preprocessed reference license.
// Shared read-only by every query after Build returns
type Entry struct {
	Name       string
	Category   corpus.Category
	Aliases    []string
	Normalized string
	Tokens     []string
	Shingles   shingle.Set
}

// TokenLen reports the canonical token count, the matcher's length tie-break
func (e *Entry) TokenLen() int { return len(e.Tokens) }

// Index holds the preprocessed corpus plus the postings and document
// frequency tables derived from it. Safe for concurrent reads
type Index struct {
	entries    []Entry
	byName     map[string]int
	postings   map[uint64][]int
	df         map[string]int
	k          int
	exhaustive int
	corpusHash uint64
}

// Build preprocesses every reference in c into an Index.
// Integrity violations (invalid corpus, reference that normalizes to
// nothing) are fatal here, before any query can see a bad entry
func Build(c corpus.Corpus, opts Options) (*Index, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}

	k := opts.K
	if k <= 0 {
		k = shingle.DefaultK
	}
	nrm := opts.Normalizer
	if nrm == nil {
		nrm = normalize.New()
	}
	limit := opts.ExhaustiveLimit
	if limit <= 0 {
		limit = DefaultExhaustiveLimit
	}

	x := &Index{
		entries:    make([]Entry, 0, c.Len()),
		byName:     make(map[string]int, c.Len()),
		postings:   make(map[uint64][]int),
		df:         make(map[string]int),
		k:          k,
		exhaustive: limit,
		corpusHash: c.Hash(),
	}

	for _, r := range c.References {
		norm := nrm.Normalize(r.Text)
		toks := shingle.Tokenize(norm)
		if len(toks) == 0 {
			return nil, fmt.Errorf("index: reference %q: text normalizes to nothing", r.Name)
		}
		x.entries = append(x.entries, Entry{
			Name:       r.Name,
			Category:   r.Category,
			Aliases:    r.Aliases,
			Normalized: norm,
			Tokens:     toks,
			Shingles:   shingle.Build(toks, k),
		})
	}

	// name order keeps ordinals stable across rebuilds of the same corpus
	sort.Slice(x.entries, func(i, j int) bool { return x.entries[i].Name < x.entries[j].Name })

	for ord := range x.entries {
		e := &x.entries[ord]
		x.byName[strings.ToLower(e.Name)] = ord
		for _, h := range e.Shingles.Hashes() {
			x.postings[h] = append(x.postings[h], ord)
		}
		seen := make(map[string]struct{}, len(e.Tokens))
		for _, t := range e.Tokens {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			x.df[t]++
		}
	}

	return x, nil
}

// Len reports the number of entries
func (x *Index) Len() int { return len(x.entries) }

// K reports the shingle window width the index was built with
func (x *Index) K() int { return x.k }

// CorpusHash fingerprints the corpus this index was built from
func (x *Index) CorpusHash() uint64 { return x.corpusHash }

// Entries returns every entry in name order.
// The returned slice and the entries it points at are read-only
func (x *Index) Entries() []*Entry {
	out := make([]*Entry, len(x.entries))
	for i := range x.entries {
		out[i] = &x.entries[i]
	}
	return out
}

// Get looks an entry up by name, case-insensitive.
// Alias and fuzzy resolution live in the catalog, not here
func (x *Index) Get(name string) (*Entry, bool) {
	ord, ok := x.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	return &x.entries[ord], true
}

// DocFreq reports how many entries contain token at least once
func (x *Index) DocFreq(token string) int { return x.df[token] }

// Candidates returns the entries worth scoring for q, most shared shingles
// first, ties in name order. At or below the exhaustive limit every entry is
// returned regardless of overlap, so the prefilter can never drop the true
// best match; above it, zero-overlap entries are omitted since their Jaccard
// is exactly 0. An empty query has no candidates
func (x *Index) Candidates(q shingle.Set) []*Entry {
	if q.Len() == 0 {
		return nil
	}

	counts := make([]int, len(x.entries))
	for _, h := range q.Hashes() {
		for _, ord := range x.postings[h] {
			counts[ord]++
		}
	}

	exhaustive := len(x.entries) <= x.exhaustive
	ords := make([]int, 0, len(x.entries))
	for ord := range x.entries {
		if exhaustive || counts[ord] > 0 {
			ords = append(ords, ord)
		}
	}
	sort.SliceStable(ords, func(i, j int) bool {
		if counts[ords[i]] != counts[ords[j]] {
			return counts[ords[i]] > counts[ords[j]]
		}
		return ords[i] < ords[j]
	})

	out := make([]*Entry, len(ords))
	for i, ord := range ords {
		out[i] = &x.entries[ord]
	}
	return out
}
