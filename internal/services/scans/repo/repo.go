// Package repo provides the scans repository implementation
package repo

import (
	"context"
	"fmt"
	"strings"

	"licorice/internal/core/classify"
	"licorice/internal/core/corpus"
	"licorice/internal/modkit/repokit"
	perr "licorice/internal/platform/errors"
	"licorice/internal/services/scans/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the scans repository
type Storage interface {
	InsertRun(ctx context.Context, run domain.Run) error
	InsertFiles(ctx context.Context, runID string, files []domain.FileRow) error
	GetRun(ctx context.Context, id string) (domain.Run, error)
	ListRuns(ctx context.Context, after domain.AfterKey, limit int) ([]domain.Head, domain.AfterKey, error)
}

// InsertRun implements Storage, idempotent on run id
func (s *pg) InsertRun(ctx context.Context, run domain.Run) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO scans (id, source, created_at, total, flagged)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`,
		run.ID, run.Source, run.CreatedAt, run.Total, run.Flagged,
	)
	return err
}

// InsertFiles implements Storage with a single multi-values insert
func (s *pg) InsertFiles(ctx context.Context, runID string, files []domain.FileRow) error {
	if len(files) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO scan_files
		(scan_id, path, decision, category, license, confidence, error) VALUES `)

	args := make([]any, 0, len(files)*7)
	for i, f := range files {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*7 + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base, base+1, base+2, base+3, base+4, base+5, base+6)
		args = append(args,
			runID, f.Path, f.Decision.String(), f.Category.String(),
			f.License, f.Confidence, f.Err,
		)
	}
	sb.WriteString(` ON CONFLICT (scan_id, path) DO NOTHING`)
	_, err := s.q.Exec(ctx, sb.String(), args...)
	return err
}

// GetRun implements Storage, loading the run head plus its file rows
func (s *pg) GetRun(ctx context.Context, id string) (domain.Run, error) {
	var run domain.Run
	err := s.q.QueryRow(ctx, `
		SELECT id::text, source, created_at, total, flagged
		FROM scans WHERE id = $1::uuid`, id,
	).Scan(&run.ID, &run.Source, &run.CreatedAt, &run.Total, &run.Flagged)
	if err != nil {
		return domain.Run{}, err
	}

	rows, err := s.q.Query(ctx, `
		SELECT path, decision, category, license, confidence, error
		FROM scan_files WHERE scan_id = $1::uuid
		ORDER BY path`, id)
	if err != nil {
		return domain.Run{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			f        domain.FileRow
			dec, cat string
		)
		if err := rows.Scan(&f.Path, &dec, &cat, &f.License, &f.Confidence, &f.Err); err != nil {
			return domain.Run{}, err
		}
		if f.Decision, err = classify.ParseDecision(dec); err != nil {
			return domain.Run{}, perr.Wrapf(err, perr.ErrorCodeDB, "scans: run %s file %q", id, f.Path)
		}
		if f.Category, err = corpus.ParseCategory(cat); err != nil {
			return domain.Run{}, perr.Wrapf(err, perr.ErrorCodeDB, "scans: run %s file %q", id, f.Path)
		}
		run.Files = append(run.Files, f)
	}
	return run, rows.Err()
}

// ListRuns implements Storage with keyset pagination, newest first
func (s *pg) ListRuns(ctx context.Context, after domain.AfterKey, limit int) ([]domain.Head, domain.AfterKey, error) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`
		SELECT id::text, source, created_at, total, flagged
		FROM scans
	`)
	if after.ID != "" {
		sb.WriteString("WHERE (created_at, id) < (" +
			arg(after.CreatedAt) + ", " + arg(after.ID) + "::uuid)\n")
	}
	sb.WriteString("ORDER BY created_at DESC, id DESC\nLIMIT " + arg(limit))

	rows, err := s.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, domain.AfterKey{}, err
	}
	defer rows.Close()

	out := make([]domain.Head, 0, limit)
	var last domain.AfterKey
	for rows.Next() {
		var h domain.Head
		if err := rows.Scan(&h.ID, &h.Source, &h.CreatedAt, &h.Total, &h.Flagged); err != nil {
			return nil, domain.AfterKey{}, err
		}
		out = append(out, h)
		last = domain.AfterKey{CreatedAt: h.CreatedAt, ID: h.ID}
	}
	return out, last, rows.Err()
}
