package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/okian/podium/internal/adapters/render"
	"github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/domain/types"
)

// PageDependencies defines the interface for the HTML page.
type PageDependencies interface {
	Board(ctx context.Context) (types.Board, error)
}

// PageHandler serves the leaderboard page.
type PageHandler struct {
	deps PageDependencies
	opts render.PageOptions
	now  func() time.Time
}

// NewPageHandler creates a new page handler.
func NewPageHandler(deps PageDependencies, opts render.PageOptions, now func() time.Time) *PageHandler {
	return &PageHandler{deps: deps, opts: opts, now: now}
}

// HandlePage handles GET / requests. Until a board is loaded the page
// shows the fallback message.
func (h *PageHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_page"
	var board *types.Board
	b, err := h.deps.Board(r.Context())
	switch {
	case err == nil:
		board = &b
	case errors.Is(err, repository.ErrNoBoard):
	default:
		writeFailure(w, op, err)
		return
	}

	var buf bytes.Buffer
	if err := render.HTML(&buf, board, h.now(), h.opts); err != nil {
		writeError(w, http.StatusInternalServerError, "render_failed", WrapKind(op, ErrRender, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}
