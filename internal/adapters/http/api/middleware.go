package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/okian/podium/pkg/metrics"
)

// errorClasses maps failure statuses to the error_type metric label.
var errorClasses = map[int]string{ //nolint:gochecknoglobals // lookup table
	http.StatusBadRequest:          "client_error",
	http.StatusNotFound:            "not_found",
	http.StatusMethodNotAllowed:    "client_error",
	http.StatusTooManyRequests:     "backpressure",
	http.StatusInternalServerError: "server_error",
	http.StatusBadGateway:          "upstream_error",
	http.StatusServiceUnavailable:  "unavailable",
}

func errorClass(status int) (class, severity string) {
	class, ok := errorClasses[status]
	switch {
	case !ok && status >= http.StatusInternalServerError:
		class = "server_error"
	case !ok:
		class = "client_error"
	}
	if status >= http.StatusInternalServerError {
		return class, "high"
	}
	return class, "medium"
}

// instrument records request metrics for named routes. Unnamed routes,
// such as the websocket upgrade, pass through untouched.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := mux.CurrentRoute(r)
		if route == nil || route.GetName() == "" {
			next.ServeHTTP(w, r)
			return
		}
		endpoint := route.GetName()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		ms := float64(time.Since(start).Microseconds()) / 1000

		metrics.RecordHTTPRequest(endpoint, r.Method, strconv.Itoa(rec.status), ms)
		if rec.status < http.StatusBadRequest {
			return
		}
		class, severity := errorClass(rec.status)
		metrics.RecordErrorByEndpoint(endpoint, r.Method, class)
		metrics.RecordErrorByType(class, severity)
		metrics.RecordErrorLatency("http", class, ms)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wrote {
		s.status, s.wrote = code, true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wrote = true
	return s.ResponseWriter.Write(b) //nolint:wrapcheck // pass-through writer
}
