// Package http provides http transport for the license catalog
package http

import (
	stdhttp "net/http"

	"licorice/internal/core/corpus"
	"licorice/internal/modkit/httpkit"
	perr "licorice/internal/platform/errors"
	catalogdom "licorice/internal/services/catalog/domain"

	"github.com/go-chi/chi/v5"
)

// Register mounts catalog endpoints on the given router
func Register(r httpkit.Router, cat catalogdom.CatalogPort) {
	h := &handlers{cat: cat}
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/lookup", h.lookup)
	httpkit.Get(r, "/{name}", h.get)
}

type handlers struct{ cat catalogdom.CatalogPort }

// swagger:route GET /licenses Licenses licensesList
// @Summary List reference licenses, optionally filtered by category
// @Tags Licenses
// @Produce json
// @Param category query string false "open_source, copyleft or proprietary"
// @Success 200 {array} catalogdom.LicenseInfo "ok"
// @Router /licenses [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	all, err := h.cat.List(r.Context())
	if err != nil {
		return nil, err
	}
	raw := r.URL.Query().Get("category")
	if raw == "" {
		return all, nil
	}
	want, err := corpus.ParseCategory(raw)
	if err != nil {
		return nil, perr.InvalidArgf("licenses: unknown category %q", raw)
	}
	out := make([]catalogdom.LicenseInfo, 0, len(all))
	for _, li := range all {
		if li.Category == want {
			out = append(out, li)
		}
	}
	return out, nil
}

// swagger:route GET /licenses/{name} Licenses licensesGet
// @Summary Fetch one reference license with its normalized text
// @Tags Licenses
// @Produce json
// @Param name path string true "Canonical license name"
// @Success 200 {object} catalogdom.LicenseDetail "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /licenses/{name} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	name := chi.URLParam(r, "name")
	if name == "" {
		return nil, perr.InvalidArgf("licenses: empty name")
	}
	return h.cat.Get(r.Context(), name)
}

// swagger:route GET /licenses/lookup Licenses licensesLookup
// @Summary Resolve a license name via exact, alias, then fuzzy match
// @Tags Licenses
// @Produce json
// @Param q query string true "Name to resolve"
// @Success 200 {array} catalogdom.LookupHit "ok"
// @Router /licenses/lookup [get]
func (h *handlers) lookup(r *stdhttp.Request) (any, error) {
	q := r.URL.Query().Get("q")
	if q == "" {
		return nil, perr.InvalidArgf("licenses: missing q")
	}
	return h.cat.Lookup(r.Context(), q)
}
