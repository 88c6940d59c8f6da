package http

import (
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/impact-map/internal/app"
	"github.com/couchcryptid/impact-map/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the page, the JSON actions, the scene stream and the
// health, readiness and metrics endpoints.
type Server struct {
	httpServer *http.Server
	controller *app.Controller
	clock      clockwork.Clock
	metrics    *observability.Metrics
	logger     *slog.Logger

	// streamInterval is the minimum gap between two scene frames sent to
	// one client.
	streamInterval time.Duration
}

// NewServer creates the HTTP server. static holds the page assets with
// index.html at its root.
func NewServer(addr string, controller *app.Controller, ready sharedobs.ReadinessChecker, static fs.FS, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			// No WriteTimeout: /ws/scene is long-lived and /api/simulate
			// waits on the backend, which has its own timeout.
			IdleTimeout: 60 * time.Second,
		},
		controller:     controller,
		clock:          clock,
		metrics:        metrics,
		logger:         logger,
		streamInterval: 33 * time.Millisecond,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.Handle("GET /", http.FileServerFS(static))

	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("PUT /api/parameters", s.handleParameters)
	mux.HandleFunc("POST /api/carousel/select", s.handleCarouselSelect)
	mux.HandleFunc("POST /api/carousel/next", s.handleCarouselNext)
	mux.HandleFunc("POST /api/carousel/prev", s.handleCarouselPrev)
	mux.HandleFunc("POST /api/impact", s.handleImpact)
	mux.HandleFunc("POST /api/help/dismiss", s.handleDismissHelp)
	mux.HandleFunc("POST /api/simulate", s.handleSimulate)
	mux.HandleFunc("POST /api/panel/close", s.handleClosePanel)
	mux.HandleFunc("POST /api/effects/clear", s.handleClearEffects)
	mux.HandleFunc("PUT /api/visibility/all", s.handleVisibilityAll)
	mux.HandleFunc("PUT /api/visibility/{category}", s.handleVisibility)
	mux.HandleFunc("PUT /api/colorblind", s.handleColorblind)
	mux.HandleFunc("GET /ws/scene", s.handleSceneStream)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
