package api

import (
	"context"
	"net/http"

	"github.com/okian/podium/internal/domain/types"
)

// StatusProvider reports the state of the refresh machinery.
type StatusProvider interface {
	Status(ctx context.Context) types.Status
}

// StatsHandler serves GET /stats.
type StatsHandler struct {
	provider StatusProvider
}

// NewStatsHandler creates a stats handler; a nil provider serves an empty object.
func NewStatsHandler(provider StatusProvider) *StatsHandler {
	return &StatsHandler{provider: provider}
}

// HandleStats writes the current status.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, h.provider.Status(r.Context()))
}
