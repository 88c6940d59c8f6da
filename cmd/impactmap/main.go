package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/impact-map/internal/adapter/backend"
	httpadapter "github.com/couchcryptid/impact-map/internal/adapter/http"
	"github.com/couchcryptid/impact-map/internal/adapter/sqlite"
	"github.com/couchcryptid/impact-map/internal/app"
	"github.com/couchcryptid/impact-map/internal/config"
	"github.com/couchcryptid/impact-map/internal/domain"
	"github.com/couchcryptid/impact-map/internal/observability"
	"github.com/couchcryptid/impact-map/internal/scene"
	"github.com/couchcryptid/impact-map/web"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Simulation backend, optionally behind an LRU cache (SIMULATION_CACHE_SIZE=0 disables it).
	client := backend.NewClient(cfg.BackendBaseURL, cfg.BackendAsteroidsPath, cfg.BackendSimulationPath,
		cfg.BackendTimeout, metrics, logger)
	var sim domain.Simulator = client
	if cfg.SimulationCacheSize > 0 {
		sim = backend.NewCachedSimulator(client, cfg.SimulationCacheSize, metrics)
		logger.Info("simulation cache enabled", "cache_size", cfg.SimulationCacheSize)
	}

	prefs, err := sqlite.Open(ctx, cfg.PrefsPath)
	if err != nil {
		logger.Error("failed to open preferences", "path", cfg.PrefsPath, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := prefs.Close(); err != nil {
			logger.Error("preferences close error", "error", err)
		}
	}()

	// A bad initial view leaves the service running without a map, the way
	// the page keeps its controls when the map fails to load.
	sc, err := scene.New(domain.LatLng{Lat: cfg.MapInitialLat, Lon: cfg.MapInitialLon}, cfg.MapInitialZoom, logger)
	if err != nil {
		logger.Error("map initialisation failed", "error", err)
	}

	clock := clockwork.NewRealClock()
	controller := app.NewController(app.Config{
		DensityKgM3:   cfg.ImpactDensity,
		SettleDelay:   cfg.SettleDelay,
		FrameInterval: cfg.FrameInterval,
	}, sim, prefs, sc, clock, metrics, logger)
	defer controller.Close()

	controller.Start(ctx)

	ready := &readiness{controller: controller, prefs: prefs}
	srv := httpadapter.NewServer(cfg.HTTPAddr, controller, ready, web.Static(), clock, metrics, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("http server error", "error", err)
	}
	logger.Info("shutdown complete")
}

// readiness requires both the map scene and the preference database.
type readiness struct {
	controller *app.Controller
	prefs      *sqlite.PreferenceStore
}

func (r *readiness) CheckReadiness(ctx context.Context) error {
	if err := r.controller.CheckReadiness(ctx); err != nil {
		return err
	}
	return r.prefs.Ping(ctx)
}
