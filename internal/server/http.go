package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/metrics"
	"github.com/gokatarajesh/trivia-api/internal/trivia"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

// ReadinessCheck reports whether downstream dependencies are reachable.
type ReadinessCheck func(ctx context.Context) error

// NewHTTPServer wires the API, health, metrics and feed routes.
// feedHandler can be nil when the question feed is disabled.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, api *trivia.HTTPHandler, ready ReadinessCheck, feedHandler http.HandlerFunc, m *metrics.Metrics) *http.Server {
	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: NewHandler(cfg.CORS, logger, api, ready, feedHandler, m, promhttp.Handler()),
	}
}

// NewHandler builds the routed, middleware-wrapped handler.
func NewHandler(cors config.CORS, logger zerolog.Logger, api *trivia.HTTPHandler, ready ReadinessCheck, feedHandler http.HandlerFunc, m *metrics.Metrics, metricsHandler http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if ready != nil {
			if err := ready(r.Context()); err != nil {
				logger.Error().Err(err).Msg("readiness check failed")
				httperrors.RespondServiceUnavailable(w)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	if feedHandler != nil {
		mux.HandleFunc("GET /ws/questions", feedHandler)
	} else {
		mux.HandleFunc("GET /ws/questions", func(w http.ResponseWriter, r *http.Request) {
			httperrors.RespondServiceUnavailable(w)
		})
	}

	api.Register(mux)

	var handler http.Handler = jsonFallback(mux)
	handler = withCORS(cors, handler)
	handler = withMetrics(m, handler)
	handler = withRecover(handler)
	handler = withRequestLogging(logger, handler)
	return handler
}

// jsonFallback turns the mux's plain-text 404 and 405 replies into JSON error bodies.
func jsonFallback(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, pattern := mux.Handler(r); pattern != "" {
			mux.ServeHTTP(w, r)
			return
		}

		probe := &statusProbe{header: make(http.Header)}
		mux.ServeHTTP(probe, r)
		if allow := probe.header.Get("Allow"); allow != "" {
			w.Header().Set("Allow", allow)
		}
		if probe.status == http.StatusMethodNotAllowed {
			httperrors.RespondMethodNotAllowed(w)
			return
		}
		httperrors.RespondNotFound(w)
	})
}

// statusProbe captures the status the mux would have written and discards the body.
type statusProbe struct {
	header http.Header
	status int
}

func (p *statusProbe) Header() http.Header         { return p.header }
func (p *statusProbe) Write(b []byte) (int, error) { return len(b), nil }
func (p *statusProbe) WriteHeader(status int)      { p.status = status }
