package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Simulation backend.
	BackendBaseURL        string
	BackendAsteroidsPath  string
	BackendSimulationPath string
	BackendTimeout        time.Duration
	SimulationCacheSize   int
	ImpactDensity         float64

	// Local preference storage.
	PrefsPath string

	// Map rendering.
	SettleDelay    time.Duration
	FrameInterval  time.Duration
	MapInitialLat  float64
	MapInitialLon  float64
	MapInitialZoom int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	backendTimeout, err := parsePositiveDuration("BACKEND_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	settleDelay, err := parsePositiveDuration("SETTLE_DELAY", "500ms")
	if err != nil {
		return nil, err
	}
	frameInterval, err := parsePositiveDuration("FRAME_INTERVAL", "16ms")
	if err != nil {
		return nil, err
	}

	density, err := parseFloat("IMPACT_DENSITY", "3000")
	if err != nil {
		return nil, err
	}
	if density <= 0 {
		return nil, errors.New("invalid IMPACT_DENSITY: must be positive")
	}

	lat, err := parseFloat("MAP_INITIAL_LAT", "20")
	if err != nil {
		return nil, err
	}
	lon, err := parseFloat("MAP_INITIAL_LON", "0")
	if err != nil {
		return nil, err
	}
	zoom, err := strconv.Atoi(sharedcfg.EnvOrDefault("MAP_INITIAL_ZOOM", "2"))
	if err != nil {
		return nil, errors.New("invalid MAP_INITIAL_ZOOM")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		BackendBaseURL:        sharedcfg.EnvOrDefault("BACKEND_BASE_URL", "http://127.0.0.1:8000"),
		BackendAsteroidsPath:  sharedcfg.EnvOrDefault("BACKEND_ASTEROIDS_PATH", "/asteroids"),
		BackendSimulationPath: sharedcfg.EnvOrDefault("BACKEND_SIMULATION_PATH", "/impact-simulation"),
		BackendTimeout:        backendTimeout,
		SimulationCacheSize:   parseCacheSize(),
		ImpactDensity:         density,

		PrefsPath: sharedcfg.EnvOrDefault("PREFS_PATH", "impact-map.db"),

		SettleDelay:    settleDelay,
		FrameInterval:  frameInterval,
		MapInitialLat:  lat,
		MapInitialLon:  lon,
		MapInitialZoom: zoom,
	}

	if u, err := url.Parse(cfg.BackendBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New("invalid BACKEND_BASE_URL: must be an absolute URL")
	}
	if cfg.PrefsPath == "" {
		return nil, errors.New("PREFS_PATH is required")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key, def string) (float64, error) {
	f, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, def), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return f, nil
}

// parseCacheSize returns SIMULATION_CACHE_SIZE, or 100 when unset or invalid.
// Zero disables the cache.
func parseCacheSize() int {
	if s := os.Getenv("SIMULATION_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			return n
		}
	}
	return 100
}
