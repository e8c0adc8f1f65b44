package api

import (
	"net/http"
	"time"

	"github.com/okian/podium/internal/adapters/render"
	"github.com/okian/podium/pkg/logger"
)

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxLimit caps the limit accepted by GET /leaderboard.
func WithMaxLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithDefaultLimit sets the limit used when GET /leaderboard has none.
func WithDefaultLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.defaultLimit = n
		}
	}
}

// WithPageOptions sets the HTML page chrome.
func WithPageOptions(o render.PageOptions) Option {
	return func(s *Server) {
		s.page = o
	}
}

// WithLive mounts the websocket stream at GET /ws.
func WithLive(h http.Handler) Option {
	return func(s *Server) {
		s.live = h
	}
}

// WithClock sets the clock used for the page status time.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the access and recovery logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAllowedOrigins enables CORS for the given origins.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = append(s.origins, origins...)
	}
}
