// Package service provides the scans service implementation
package service

import (
	"context"
	"errors"
	"time"

	"licorice/internal/modkit/repokit"
	perr "licorice/internal/platform/errors"
	"licorice/internal/platform/store"
	"licorice/internal/services/scans/domain"
	"licorice/internal/services/scans/repo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Config for the scans service
type Config struct {
	// HardLimit is the maximum allowed limit per List call
	HardLimit int
}

// Service implements domain.WriterPort and domain.QueryPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
	Cfg    Config
	now    func() time.Time
}

// New constructs a new scans service
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage], cfg Config) *Service {
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 100
	}
	return &Service{DB: db, Binder: b, Cfg: cfg, now: time.Now}
}

// Record implements domain.WriterPort. Run head and file rows land in one
// transaction so a half-written scan never becomes visible
func (s *Service) Record(ctx context.Context, run domain.Run) (string, error) {
	if run.Source == "" {
		return "", perr.InvalidArgf("scans: empty source")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	} else if _, err := uuid.Parse(run.ID); err != nil {
		return "", perr.InvalidArgf("scans: run id %q is not a uuid", run.ID)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.now().UTC()
	}
	run.Total = len(run.Files)

	// RunInScan tags the context so trace events carry the run id
	err := store.RunInScan(ctx, s.DB, run.ID, func(ctx context.Context, q repokit.Queryer) error {
		st := s.Binder.Bind(q)
		if err := st.InsertRun(ctx, run); err != nil {
			return err
		}
		return st.InsertFiles(ctx, run.ID, run.Files)
	})
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

// Get implements domain.QueryPort
func (s *Service) Get(ctx context.Context, id string) (domain.Run, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Run{}, perr.InvalidArgf("scans: id %q is not a uuid", id)
	}
	var run domain.Run
	err := store.RunInScan(ctx, s.DB, id, func(ctx context.Context, q repokit.Queryer) error {
		var err error
		run, err = s.Binder.Bind(q).GetRun(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Run{}, perr.NotFoundf("scans: no run %s", id)
		}
		return domain.Run{}, perr.FromPostgresf(err, "scans: get run %s", id)
	}
	return run, nil
}

// List implements domain.QueryPort
func (s *Service) List(ctx context.Context, after domain.AfterKey, limit int) ([]domain.Head, domain.AfterKey, error) {
	if limit <= 0 || limit > s.Cfg.HardLimit {
		limit = s.Cfg.HardLimit
	}
	var (
		heads []domain.Head
		next  domain.AfterKey
	)
	err := store.Run(ctx, s.DB, func(ctx context.Context, q repokit.Queryer) error {
		var err error
		heads, next, err = s.Binder.Bind(q).ListRuns(ctx, after, limit)
		return err
	})
	if err != nil {
		return nil, domain.AfterKey{}, err
	}
	return heads, next, nil
}
