// Package classify is the engine front door: normalize, shingle, rank
// against the reference index, then decide category, name and confidence.
// A Classifier is immutable and safe for concurrent queries
package classify

import (
	"fmt"

	"licorice/internal/core/corpus"
	"licorice/internal/core/index"
	"licorice/internal/core/match"
	"licorice/internal/core/normalize"
	"licorice/internal/core/shingle"
)

// Defaults for Options fields left at zero
const (
	DefaultThreshold     = 0.75
	DefaultMinMargin     = 0.05
	DefaultMaxCandidates = 5
)

// Options tunes the whole pipeline. Zero values take the defaults
type Options struct {
	// K is the shingle window width
	K int

	// Threshold is the minimum top score for a name match
	Threshold float64

	// MinMargin is the lead over the runner-up required before a match
	// is called unambiguously
	MinMargin float64

	// TieEpsilon and AlignmentWeight tune the matcher's blending band
	TieEpsilon      float64
	AlignmentWeight float64
	AlignmentCap    int

	// Workers bounds per-query scoring parallelism
	Workers int

	// DisableStemming turns off the Porter2 pass on both sides
	DisableStemming bool

	// ExtraPlaceholders extend the boilerplate scrub set
	ExtraPlaceholders []normalize.Placeholder

	// Rules overrides the lexical fallback table, nil means DefaultRules
	Rules []Rule

	// MaxCandidates caps how many scored candidates a Result carries
	MaxCandidates int
}

func (o Options) withDefaults() Options {
	if o.K <= 0 {
		o.K = shingle.DefaultK
	}
	if o.Threshold == 0 {
		o.Threshold = DefaultThreshold
	}
	if o.MinMargin == 0 {
		o.MinMargin = DefaultMinMargin
	}
	if o.TieEpsilon == 0 {
		o.TieEpsilon = match.DefaultTieEpsilon
	}
	if o.AlignmentWeight == 0 {
		o.AlignmentWeight = match.DefaultAlignmentWeight
	}
	if o.Workers <= 0 {
		o.Workers = match.DefaultWorkers
	}
	if o.Rules == nil {
		o.Rules = DefaultRules()
	}
	if o.MaxCandidates <= 0 {
		o.MaxCandidates = DefaultMaxCandidates
	}
	return o
}

func (o Options) validate() error {
	if o.Threshold <= 0 || o.Threshold > 1 {
		return fmt.Errorf("classify: threshold %v out of range (0,1]", o.Threshold)
	}
	if o.MinMargin <= 0 || o.MinMargin > o.Threshold {
		return fmt.Errorf("classify: min margin %v out of range (0,%v]", o.MinMargin, o.Threshold)
	}
	if o.TieEpsilon <= 0 || o.TieEpsilon >= 1 {
		return fmt.Errorf("classify: tie epsilon %v out of range (0,1)", o.TieEpsilon)
	}
	if o.AlignmentWeight <= 0 || o.AlignmentWeight >= 1 {
		return fmt.Errorf("classify: alignment weight %v out of range (0,1)", o.AlignmentWeight)
	}
	if o.MaxCandidates < 2 {
		return fmt.Errorf("classify: max candidates %d must be at least 2", o.MaxCandidates)
	}
	return nil
}

// Candidate is the wire view of one scored reference
type Candidate struct {
	Name      string          `json:"name"`
	Category  corpus.Category `json:"category"`
	Score     float64         `json:"score"`
	Jaccard   float64         `json:"jaccard"`
	Alignment float64         `json:"alignment,omitempty"`
	Cosine    float64         `json:"cosine,omitempty"`
}

// Result is what every classification returns. Name is set iff the
// decision is Matched, Category is always one of the three variants
type Result struct {
	Decision   Decision        `json:"decision"`
	Category   corpus.Category `json:"category"`
	Name       string          `json:"name,omitempty"`
	Confidence float64         `json:"confidence"`
	Candidates []Candidate     `json:"candidates,omitempty"`
}

// Info describes the engine for diagnostics endpoints
type Info struct {
	CorpusSize int     `json:"corpus_size"`
	CorpusHash string  `json:"corpus_hash"`
	K          int     `json:"shingle_k"`
	Threshold  float64 `json:"threshold"`
	MinMargin  float64 `json:"min_margin"`
	Stemming   bool    `json:"stemming"`
	Workers    int     `json:"workers"`
}

// Classifier wires the pipeline over one immutable index
type Classifier struct {
	idx   *index.Index
	m     *match.Matcher
	nrm   *normalize.Normalizer
	rules []compiledRule
	opts  Options
}

// New builds a Classifier over an existing index. opts.K must agree with
// the index (zero adopts the index's k), and the index is assumed to have
// been built with the same normalizer options; NewFromCorpus guarantees
// both and is the usual entry point
func New(idx *index.Index, opts Options) (*Classifier, error) {
	if idx == nil {
		return nil, fmt.Errorf("classify: nil index")
	}
	if opts.K == 0 {
		opts.K = idx.K()
	}
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.K != idx.K() {
		return nil, fmt.Errorf("classify: k %d does not match index k %d", opts.K, idx.K())
	}

	nrm := normalize.NewWithOptions(normalize.Options{
		DisableStemming:   opts.DisableStemming,
		ExtraPlaceholders: opts.ExtraPlaceholders,
	})
	rules, err := compileRules(opts.Rules, nrm)
	if err != nil {
		return nil, err
	}

	return &Classifier{
		idx: idx,
		m: match.New(idx, match.Options{
			Workers:         opts.Workers,
			TieEpsilon:      opts.TieEpsilon,
			AlignmentWeight: opts.AlignmentWeight,
			AlignmentCap:    opts.AlignmentCap,
		}),
		nrm:   nrm,
		rules: rules,
		opts:  opts,
	}, nil
}

// NewFromCorpus builds the index and the Classifier together so reference
// and query texts are guaranteed to pass through the same pipeline
func NewFromCorpus(c corpus.Corpus, opts Options) (*Classifier, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	nrm := normalize.NewWithOptions(normalize.Options{
		DisableStemming:   opts.DisableStemming,
		ExtraPlaceholders: opts.ExtraPlaceholders,
	})
	idx, err := index.Build(c, index.Options{K: opts.K, Normalizer: nrm})
	if err != nil {
		return nil, err
	}
	return New(idx, opts)
}

// Index exposes the underlying reference index, read-only
func (c *Classifier) Index() *index.Index { return c.idx }

// Info reports the engine configuration
func (c *Classifier) Info() Info {
	return Info{
		CorpusSize: c.idx.Len(),
		CorpusHash: fmt.Sprintf("%016x", c.idx.CorpusHash()),
		K:          c.opts.K,
		Threshold:  c.opts.Threshold,
		MinMargin:  c.opts.MinMargin,
		Stemming:   !c.opts.DisableStemming,
		Workers:    c.opts.Workers,
	}
}

// Classify runs the full pipeline on raw text. It is total: every input,
// including empty or binary garbage, yields a Result rather than an error
func (c *Classifier) Classify(text string) Result {
	norm := c.nrm.Normalize(text)
	if norm == "" {
		// nothing to compare, conservative category for audit review
		return Result{Decision: DecisionUnmatched, Category: corpus.CategoryProprietary}
	}

	tokens := shingle.Tokenize(norm)
	qset := shingle.Build(tokens, c.opts.K)
	hint, _, ruleFired := evalRules(c.rules, norm)

	ranked := c.m.Rank(tokens, qset, hint)
	if len(ranked) == 0 {
		return Result{Decision: DecisionUnmatched, Category: c.fallbackCategory(hint, ruleFired)}
	}

	top := ranked[0]
	margin := top.Score
	if len(ranked) > 1 {
		margin = top.Score - ranked[1].Score
	}

	res := Result{Candidates: c.view(ranked)}
	switch {
	case top.Score >= c.opts.Threshold && margin >= c.opts.MinMargin:
		res.Decision = DecisionMatched
		res.Category = top.Entry.Category
		res.Name = top.Entry.Name
		res.Confidence = clamp01(top.Score)

	case top.Score >= c.opts.Threshold:
		// near tie, surface the finalists and discount confidence by
		// how thin the margin is
		res.Decision = DecisionAmbiguous
		res.Category = top.Entry.Category
		res.Confidence = clamp01(top.Score * (0.5 + 0.5*margin/c.opts.MinMargin))

	default:
		res.Decision = DecisionUnmatched
		res.Category = c.fallbackCategory(hint, ruleFired)
		res.Confidence = clamp01(top.Score)
	}
	return res
}

// fallbackCategory resolves the below-threshold category: the fired rule
// when there is one, otherwise Proprietary so unrecognized text is flagged
// for review rather than waved through
func (c *Classifier) fallbackCategory(hint corpus.Category, ruleFired bool) corpus.Category {
	if ruleFired {
		return hint
	}
	return corpus.CategoryProprietary
}

func (c *Classifier) view(ranked []match.Candidate) []Candidate {
	n := len(ranked)
	if n > c.opts.MaxCandidates {
		n = c.opts.MaxCandidates
	}
	out := make([]Candidate, n)
	for i := 0; i < n; i++ {
		r := ranked[i]
		out[i] = Candidate{
			Name:      r.Entry.Name,
			Category:  r.Entry.Category,
			Score:     r.Score,
			Jaccard:   r.Jaccard,
			Alignment: r.Alignment,
			Cosine:    r.Cosine,
		}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
