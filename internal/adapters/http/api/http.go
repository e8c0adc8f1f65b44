// Package api serves the leaderboard over HTTP: JSON, XLSX, the HTML page and refresh triggers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/okian/podium/internal/adapters/render"
	"github.com/okian/podium/internal/domain/diagnostics"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
)

const (
	defaultMaxLimit  = 100
	defaultListLimit = 10
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Board(ctx context.Context) (types.Board, error)
	TopN(ctx context.Context, n int) ([]Entry, error)
	Rank(ctx context.Context, player string) (Entry, error)

	// Refresh queues a reload of the source.
	Refresh(ctx context.Context, reason string) (model.RefreshRequest, error)
	Diagnostics(ctx context.Context) (diagnostics.Report, error)
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the leaderboard API.
type Server struct {
	deps         Dependencies
	stats        StatusProvider
	maxLimit     int
	defaultLimit int
	page         render.PageOptions
	live         http.Handler
	now          func() time.Time
	logger       logger.Logger
	origins      []string

	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	leaderboardHandler *LeaderboardHandler
	refreshHandler     *RefreshHandler
	pageHandler        *PageHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, status StatusProvider, opts ...Option) *Server {
	s := &Server{
		deps:         deps,
		stats:        status,
		maxLimit:     defaultMaxLimit,
		defaultLimit: defaultListLimit,
		page:         render.DefaultPageOptions(),
		now:          time.Now,
		logger:       logger.Get().Named("http"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.live == nil {
		s.page.LivePath = ""
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(status)
	s.leaderboardHandler = NewLeaderboardHandler(deps, s.maxLimit, s.defaultLimit, s.logger)
	s.refreshHandler = NewRefreshHandler(deps)
	s.pageHandler = NewPageHandler(deps, s.page, s.now)
	return s
}

// Register attaches all HTTP routes to r. Named routes are instrumented
// under their name.
func (s *Server) Register(_ context.Context, r *mux.Router) {
	get := func(path, name string, h http.HandlerFunc) {
		r.Handle(path, h).Methods(http.MethodGet).Name(name)
	}
	get("/", "page", s.pageHandler.HandlePage)
	get("/healthz", "healthz", s.healthHandler.HandleHealth)
	get("/stats", "stats", s.statsHandler.HandleStats)
	get("/leaderboard", "leaderboard", s.leaderboardHandler.HandleGetLeaderboard)
	get("/leaderboard.xlsx", "leaderboard_xlsx", s.leaderboardHandler.HandleGetXLSX)
	get("/podium", "podium", s.leaderboardHandler.HandleGetPodium)
	get("/rank/{player}", "rank", s.leaderboardHandler.HandleGetRank)
	get("/diagnostics", "diagnostics", s.refreshHandler.HandleGetDiagnostics)
	r.Handle("/refresh", http.HandlerFunc(s.refreshHandler.HandlePostRefresh)).Methods(http.MethodPost).Name("refresh")
	if s.live != nil {
		// Hijacked; viewers are counted by the hub.
		r.Handle("/ws", s.live).Methods(http.MethodGet)
	}
	r.Use(instrument)
}

// Handler wraps r with access logging, panic recovery and optional CORS.
func (s *Server) Handler(r *mux.Router) http.Handler {
	var h http.Handler = r
	if len(s.origins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(s.origins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
		)(h)
	}
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{l: s.logger}),
		handlers.PrintRecoveryStack(false),
	)(h)
	return handlers.LoggingHandler(logger.NewWriter(s.logger, "http access"), h)
}

// recoveryLogger adapts logger.Logger to handlers.RecoveryHandlerLogger.
type recoveryLogger struct {
	l logger.Logger
}

func (r recoveryLogger) Println(v ...interface{}) {
	r.l.Error(context.Background(), "http handler panic", logger.Any("panic", v))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
