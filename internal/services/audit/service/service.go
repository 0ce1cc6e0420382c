// Package service runs batch classification over a set of inputs
package service

import (
	"context"
	"sort"
	"sync"

	catalogdom "licorice/internal/services/catalog/domain"
	"licorice/internal/services/audit/domain"
)

// Config for the audit service
type Config struct {
	// Workers bounds batch parallelism, 0 means default
	Workers int
}

// DefaultWorkers bounds per-batch parallelism when unset
const DefaultWorkers = 4

// Service implements domain.RunnerPort over the catalog's classifier
type Service struct {
	cls catalogdom.ClassifierPort
	cfg Config
}

// New constructs the audit service
func New(cls catalogdom.ClassifierPort, cfg Config) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	return &Service{cls: cls, cfg: cfg}
}

// Run implements domain.RunnerPort. Results land in a slice indexed by
// input position so the report order never depends on completion order
func (s *Service) Run(ctx context.Context, inputs []domain.Input) (domain.Report, error) {
	out := make([]domain.FileResult, len(inputs))

	sem := make(chan struct{}, s.cfg.Workers)
	wg := sync.WaitGroup{}

loop:
	for i := range inputs {
		select {
		case <-ctx.Done():
			break loop
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(i int) {
			defer func() { <-sem; wg.Done() }()
			in := inputs[i]
			res, err := s.cls.Classify(ctx, in.Text)
			fr := domain.FileResult{Path: in.Path, Result: res}
			if err != nil {
				fr.Err = err.Error()
			}
			out[i] = fr
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return domain.Report{}, err
	}
	return domain.Report{Files: out, Summary: summarize(out)}, nil
}

func summarize(files []domain.FileResult) domain.Summary {
	sum := domain.Summary{
		Total:      len(files),
		ByCategory: map[string]int{},
		ByDecision: map[string]int{},
	}
	for _, f := range files {
		if f.Err != "" {
			sum.ByDecision["error"]++
		} else {
			sum.ByCategory[f.Result.Category.String()]++
			sum.ByDecision[f.Result.Decision.String()]++
		}
		if f.Flagged() {
			sum.Flagged = append(sum.Flagged, f.Path)
		}
	}
	sort.Strings(sum.Flagged)
	return sum
}
