// Package http provides http transport for scans
package http

import (
	"encoding/base64"
	stdhttp "net/http"
	"strconv"
	"strings"
	"time"

	"licorice/internal/modkit/httpkit"
	perr "licorice/internal/platform/errors"
	pnet "licorice/internal/platform/net"
	"licorice/internal/services/api/scans/domain"
	auditdom "licorice/internal/services/audit/domain"
	scansdom "licorice/internal/services/scans/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Ports are the worker and storage ports the handlers drive
type Ports struct {
	Runner auditdom.RunnerPort
	Writer scansdom.WriterPort
	Query  scansdom.QueryPort
}

// Register mounts scans endpoints on the given router
func Register(r httpkit.Router, p Ports) {
	h := &handlers{p: p}
	httpkit.PostJSON[domain.ScanInput](r, "/", h.submit)
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/{id}", h.get)
}

type handlers struct{ p Ports }

// swagger:route POST /scans Scans scansSubmit
// @Summary Classify a batch of license files and persist the run
// @Tags Scans
// @Accept json
// @Produce json
// @Param payload body domain.ScanInput true "Scan request"
// @Success 200 {object} domain.ScanOutput "ok"
// @Failure 400 {object} httpkit.Envelope "invalid input"
// @Router /scans [post]
func (h *handlers) submit(r *stdhttp.Request, in domain.ScanInput) (any, error) {
	inputs := make([]auditdom.Input, len(in.Files))
	for i, f := range in.Files {
		inputs[i] = auditdom.Input{Path: f.Path, Text: f.Text}
	}

	report, err := h.p.Runner.Run(r.Context(), inputs)
	if err != nil {
		return nil, err
	}

	rows := toRows(report.Files)
	id, err := h.p.Writer.Record(r.Context(), scansdom.Run{
		Source:  in.Source,
		Flagged: len(report.Summary.Flagged),
		Files:   rows,
	})
	if err != nil {
		return nil, err
	}

	return domain.ScanOutput{
		ID:      id,
		Source:  in.Source,
		Summary: report.Summary,
		Files:   rows,
	}, nil
}

// swagger:route GET /scans/{id} Scans scansGet
// @Summary Fetch one persisted scan run with its file rows
// @Tags Scans
// @Produce json
// @Param id path string true "Run id (uuid)"
// @Success 200 {object} scansdom.Run "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /scans/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	id := chi.URLParam(r, "id")
	return h.p.Query.Get(pnet.WithScan(r.Context(), id), id)
}

// swagger:route GET /scans Scans scansList
// @Summary List persisted scan runs, newest first
// @Tags Scans
// @Produce json
// @Param limit query int false "Page size"
// @Param after query string false "Opaque cursor from a previous page"
// @Success 200 {object} domain.ScanPage "ok"
// @Router /scans [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, perr.InvalidArgf("scans: bad limit %q", raw)
		}
		limit = n
	}

	after, err := decodeCursor(q.Get("after"))
	if err != nil {
		return nil, err
	}

	heads, next, err := h.p.Query.List(r.Context(), after, limit)
	if err != nil {
		return nil, err
	}

	page := domain.ScanPage{Items: heads}
	if len(heads) > 0 {
		page.Next = encodeCursor(next)
	}
	return page, nil
}

func toRows(files []auditdom.FileResult) []scansdom.FileRow {
	rows := make([]scansdom.FileRow, len(files))
	for i, f := range files {
		rows[i] = scansdom.FileRow{
			Path:       f.Path,
			Decision:   f.Result.Decision,
			Category:   f.Result.Category,
			License:    f.Result.Name,
			Confidence: f.Result.Confidence,
			Err:        f.Err,
		}
	}
	return rows
}

// cursor is "RFC3339Nano,uuid" wrapped in url-safe base64 so clients treat
// it as opaque
func encodeCursor(k scansdom.AfterKey) string {
	if k.ID == "" {
		return ""
	}
	raw := k.CreatedAt.UTC().Format(time.RFC3339Nano) + "," + k.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(s string) (scansdom.AfterKey, error) {
	if s == "" {
		return scansdom.AfterKey{}, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return scansdom.AfterKey{}, perr.InvalidArgf("scans: bad cursor")
	}
	ts, id, ok := strings.Cut(string(raw), ",")
	if !ok {
		return scansdom.AfterKey{}, perr.InvalidArgf("scans: bad cursor")
	}
	at, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return scansdom.AfterKey{}, perr.InvalidArgf("scans: bad cursor")
	}
	if _, err := uuid.Parse(id); err != nil {
		return scansdom.AfterKey{}, perr.InvalidArgf("scans: bad cursor")
	}
	return scansdom.AfterKey{CreatedAt: at, ID: id}, nil
}
