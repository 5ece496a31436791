package report

import (
	"context"
	"net/http"

	"examboard/internal/app/apiresp"
)

type summaryService interface {
	Summary(ctx context.Context) (*Summary, error)
}

type Handler struct {
	svc summaryService
}

func NewHandler(svc summaryService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context())
	if err != nil {
		apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, summary)
}
