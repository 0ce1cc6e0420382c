// Package http provides http transport for classify
package http

import (
	stdhttp "net/http"

	"licorice/internal/modkit/httpkit"
	"licorice/internal/services/api/classify/domain"
	catalogdom "licorice/internal/services/catalog/domain"
)

// Register mounts classify endpoints on the given router
func Register(r httpkit.Router, cls catalogdom.ClassifierPort) {
	h := &handlers{cls: cls}
	httpkit.PostJSON[domain.ClassifyInput](r, "/", h.classify)
}

type handlers struct{ cls catalogdom.ClassifierPort }

// swagger:route POST /classify Classify classifyText
// @Summary Classify a license text against the reference corpus
// @Tags Classify
// @Accept json
// @Produce json
// @Param payload body domain.ClassifyInput true "License text"
// @Success 200 {object} classify.Result "ok"
// @Failure 400 {object} httpkit.Envelope "invalid input"
// @Router /classify [post]
func (h *handlers) classify(r *stdhttp.Request, in domain.ClassifyInput) (any, error) {
	return h.cls.Classify(r.Context(), in.Text)
}
