// Package service owns the live classification engine. The engine is an
// immutable Classifier value held behind an atomic pointer; rebuilds
// construct a whole new engine and swap it in, queries in flight keep the
// one they started with
package service

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"

	"licorice/internal/core/classify"
	"licorice/internal/core/corpus"
	"licorice/internal/core/index"
	perr "licorice/internal/platform/errors"
	"licorice/internal/platform/logger"
	"licorice/internal/services/catalog/domain"

	"github.com/hbollon/go-edlib"
)

// DefaultFuzzyMin is the JaroWinkler floor for fuzzy lookup hits
const DefaultFuzzyMin = 0.85

// Config for the catalog service
type Config struct {
	// CorpusDir overrides the embedded corpus when set
	CorpusDir string

	// Watch enables the corpus-dir watcher (needs CorpusDir)
	Watch bool

	// Classify tunes the engine built from the corpus
	Classify classify.Options

	// FuzzyMin is the minimum fuzzy similarity for Lookup, 0 means default
	FuzzyMin float64

	// Debounce for the watcher, 0 means default
	DebounceMs int
}

// Service implements domain.ClassifierPort, CatalogPort and AdminPort
type Service struct {
	cfg Config
	cur atomic.Pointer[classify.Classifier]
	log logger.Logger
}

// New builds the engine from the configured corpus source and returns the
// service. Corpus integrity violations are fatal here, before any query
func New(cfg Config) (*Service, error) {
	if cfg.FuzzyMin <= 0 {
		cfg.FuzzyMin = DefaultFuzzyMin
	}
	s := &Service{cfg: cfg, log: *logger.Named("catalog")}
	cls, err := s.build()
	if err != nil {
		return nil, err
	}
	s.cur.Store(cls)
	s.log.Info().
		Int("corpus_size", cls.Info().CorpusSize).
		Str("corpus_hash", cls.Info().CorpusHash).
		Str("source", s.source()).
		Msg("catalog engine ready")
	return s, nil
}

func (s *Service) source() string {
	if s.cfg.CorpusDir != "" {
		return s.cfg.CorpusDir
	}
	return "embedded"
}

// build loads the corpus and constructs a fresh engine
func (s *Service) build() (*classify.Classifier, error) {
	var (
		c   corpus.Corpus
		err error
	)
	if s.cfg.CorpusDir != "" {
		c, err = corpus.LoadDir(s.cfg.CorpusDir)
	} else {
		c, err = corpus.Embedded()
	}
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeCorpus, "catalog: load corpus from %s", s.source())
	}
	cls, err := classify.NewFromCorpus(c, s.cfg.Classify)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeCorpus, "catalog: build engine")
	}
	return cls, nil
}

// engine returns the current classifier, never nil after New succeeds
func (s *Service) engine() *classify.Classifier { return s.cur.Load() }

// Classify implements domain.ClassifierPort
func (s *Service) Classify(ctx context.Context, text string) (classify.Result, error) {
	if err := ctx.Err(); err != nil {
		return classify.Result{}, err
	}
	return s.engine().Classify(text), nil
}

// Info implements domain.ClassifierPort
func (s *Service) Info() classify.Info { return s.engine().Info() }

// Rebuild implements domain.AdminPort. On failure the previous engine
// keeps serving and the error is returned to the caller
func (s *Service) Rebuild(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cls, err := s.build()
	if err != nil {
		return err
	}
	prev := s.cur.Swap(cls)
	s.log.Info().
		Str("corpus_hash", cls.Info().CorpusHash).
		Str("prev_hash", prev.Info().CorpusHash).
		Msg("catalog engine swapped")
	return nil
}

// List implements domain.CatalogPort, entries in name order
func (s *Service) List(ctx context.Context) ([]domain.LicenseInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries := s.engine().Index().Entries()
	out := make([]domain.LicenseInfo, len(entries))
	for i, e := range entries {
		out[i] = infoOf(e)
	}
	return out, nil
}

// Get implements domain.CatalogPort, name is case-insensitive
func (s *Service) Get(ctx context.Context, name string) (domain.LicenseDetail, error) {
	if err := ctx.Err(); err != nil {
		return domain.LicenseDetail{}, err
	}
	e, ok := s.engine().Index().Get(name)
	if !ok {
		return domain.LicenseDetail{}, perr.NotFoundf("catalog: no license %q", name)
	}
	return domain.LicenseDetail{LicenseInfo: infoOf(e), Normalized: e.Normalized}, nil
}

// Lookup implements domain.CatalogPort: exact name, then alias, then
// JaroWinkler fuzzy over names and aliases, best score first
func (s *Service) Lookup(ctx context.Context, q string) ([]domain.LookupHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, perr.InvalidArgf("catalog: empty lookup query")
	}
	idx := s.engine().Index()

	if e, ok := idx.Get(q); ok {
		return []domain.LookupHit{{Name: e.Name, Category: e.Category, Score: 1, Via: domain.ViaExact}}, nil
	}

	lq := strings.ToLower(q)
	for _, e := range idx.Entries() {
		for _, a := range e.Aliases {
			if strings.ToLower(a) == lq {
				return []domain.LookupHit{{Name: e.Name, Category: e.Category, Score: 1, Via: domain.ViaAlias}}, nil
			}
		}
	}

	var hits []domain.LookupHit
	for _, e := range idx.Entries() {
		best := fuzzyScore(lq, e.Name)
		for _, a := range e.Aliases {
			if sc := fuzzyScore(lq, a); sc > best {
				best = sc
			}
		}
		if best >= s.cfg.FuzzyMin {
			hits = append(hits, domain.LookupHit{Name: e.Name, Category: e.Category, Score: best, Via: domain.ViaFuzzy})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Name < hits[j].Name
	})
	return hits, nil
}

func fuzzyScore(q, name string) float64 {
	sc, err := edlib.StringsSimilarity(q, strings.ToLower(name), edlib.JaroWinkler)
	if err != nil {
		return 0
	}
	return float64(sc)
}

func infoOf(e *index.Entry) domain.LicenseInfo {
	return domain.LicenseInfo{
		Name:       e.Name,
		Category:   e.Category,
		Aliases:    e.Aliases,
		TokenCount: e.TokenLen(),
	}
}
