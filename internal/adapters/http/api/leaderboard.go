package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/okian/podium/internal/adapters/render"
	"github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
)

// LeaderboardDependencies are the read operations on the published board.
type LeaderboardDependencies interface {
	Board(ctx context.Context) (types.Board, error)
	TopN(ctx context.Context, n int) ([]Entry, error)
	Rank(ctx context.Context, player string) (Entry, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps         LeaderboardDependencies
	maxLimit     int
	defaultLimit int
	logger       logger.Logger
}

// NewLeaderboardHandler creates a new leaderboard handler.
// A nil logger falls back to the global "http" logger.
func NewLeaderboardHandler(deps LeaderboardDependencies, maxLimit, defaultLimit int, l logger.Logger) *LeaderboardHandler {
	if l == nil {
		l = logger.Get().Named("http")
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &LeaderboardHandler{
		deps:         deps,
		maxLimit:     maxLimit,
		defaultLimit: defaultLimit,
		logger:       l,
	}
}

// HandleGetLeaderboard handles GET /leaderboard?limit=N requests.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	n := h.defaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded",
			WrapKind(op, ErrBadRequest, fmt.Errorf("limit %d above %d", n, h.maxLimit)))
		return
	}
	entries, err := h.deps.TopN(r.Context(), n)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleGetPodium handles GET /podium requests.
func (h *LeaderboardHandler) HandleGetPodium(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_podium"
	board, err := h.deps.Board(r.Context())
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// HandleGetXLSX handles GET /leaderboard.xlsx requests.
func (h *LeaderboardHandler) HandleGetXLSX(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_xlsx"
	board, err := h.deps.Board(r.Context())
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	f, err := render.XLSX(board)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "render_failed", WrapKind(op, ErrRender, err))
		return
	}
	defer func() { _ = f.Close() }()

	// Serialise first so a render failure can still become a 500.
	buf, err := f.WriteToBuffer()
	if err != nil {
		h.logger.Error(r.Context(), "xlsx serialise failed", logger.Uint64("seq", board.Seq), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "render_failed", WrapKind(op, ErrRender, err))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="leaderboard.xlsx"`)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn(r.Context(), "xlsx write failed", logger.Uint64("seq", board.Seq), logger.Error(err))
	}
}

// HandleGetRank serves GET /rank/{player}. Before the first load every
// player is unknown.
func (h *LeaderboardHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rank"
	player := strings.TrimSpace(mux.Vars(r)["player"])
	if player == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	entry, err := h.deps.Rank(r.Context(), player)
	switch {
	case errors.Is(err, repository.ErrNoBoard):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case err != nil:
		writeFailure(w, op, err)
	default:
		writeJSON(w, http.StatusOK, entry)
	}
}
