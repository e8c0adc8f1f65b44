package api

import (
	"context"
	"net/http"

	"github.com/okian/podium/internal/domain/diagnostics"
	"github.com/okian/podium/internal/domain/model"
)

// RefreshDependencies defines the interface for reload operations.
type RefreshDependencies interface {
	Refresh(ctx context.Context, reason string) (model.RefreshRequest, error)
	Diagnostics(ctx context.Context) (diagnostics.Report, error)
}

// RefreshHandler handles reload and data-quality requests.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

type refreshResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
	Seq    uint64 `json:"seq"`
}

// HandlePostRefresh handles POST /refresh requests. The load runs in the
// background; the response carries its id and initiation order.
func (h *RefreshHandler) HandlePostRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_refresh"
	req, err := h.deps.Refresh(r.Context(), model.ReasonManual)
	if err != nil {
		status, code := statusFor(err)
		if status == http.StatusTooManyRequests {
			writeError(w, status, code, WrapKind(op, ErrBackpressure, err))
			return
		}
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, refreshResponse{Status: "accepted", ID: req.ID, Seq: req.Seq})
}

// HandleGetDiagnostics handles GET /diagnostics requests.
func (h *RefreshHandler) HandleGetDiagnostics(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_diagnostics"
	rep, err := h.deps.Diagnostics(r.Context())
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
