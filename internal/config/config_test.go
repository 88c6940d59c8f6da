package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBackendURL = "http://sim.internal:9000"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.BackendBaseURL)
	assert.Equal(t, "/asteroids", cfg.BackendAsteroidsPath)
	assert.Equal(t, "/impact-simulation", cfg.BackendSimulationPath)
	assert.Equal(t, 30*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 100, cfg.SimulationCacheSize)
	assert.Equal(t, 3000.0, cfg.ImpactDensity)
	assert.Equal(t, "impact-map.db", cfg.PrefsPath)
	assert.Equal(t, 500*time.Millisecond, cfg.SettleDelay)
	assert.Equal(t, 16*time.Millisecond, cfg.FrameInterval)
	assert.Equal(t, 20.0, cfg.MapInitialLat)
	assert.Equal(t, 0.0, cfg.MapInitialLon)
	assert.Equal(t, 2, cfg.MapInitialZoom)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BACKEND_BASE_URL", testBackendURL)
	t.Setenv("BACKEND_ASTEROIDS_PATH", "/api/asteroides/")
	t.Setenv("BACKEND_SIMULATION_PATH", "/api/impacto/")
	t.Setenv("BACKEND_TIMEOUT", "5s")
	t.Setenv("SIMULATION_CACHE_SIZE", "0")
	t.Setenv("IMPACT_DENSITY", "2600")
	t.Setenv("PREFS_PATH", "/tmp/prefs.db")
	t.Setenv("SETTLE_DELAY", "1s")
	t.Setenv("FRAME_INTERVAL", "33ms")
	t.Setenv("MAP_INITIAL_LAT", "40.4")
	t.Setenv("MAP_INITIAL_LON", "-3.7")
	t.Setenv("MAP_INITIAL_ZOOM", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, testBackendURL, cfg.BackendBaseURL)
	assert.Equal(t, "/api/asteroides/", cfg.BackendAsteroidsPath)
	assert.Equal(t, "/api/impacto/", cfg.BackendSimulationPath)
	assert.Equal(t, 5*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 0, cfg.SimulationCacheSize)
	assert.Equal(t, 2600.0, cfg.ImpactDensity)
	assert.Equal(t, "/tmp/prefs.db", cfg.PrefsPath)
	assert.Equal(t, time.Second, cfg.SettleDelay)
	assert.Equal(t, 33*time.Millisecond, cfg.FrameInterval)
	assert.Equal(t, 40.4, cfg.MapInitialLat)
	assert.Equal(t, -3.7, cfg.MapInitialLon)
	assert.Equal(t, 5, cfg.MapInitialZoom)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidDurations(t *testing.T) {
	for _, key := range []string{"BACKEND_TIMEOUT", "SETTLE_DELAY", "FRAME_INTERVAL"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "bad")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
		t.Run(key+" negative", func(t *testing.T) {
			t.Setenv(key, "-1s")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_InvalidDensity(t *testing.T) {
	t.Setenv("IMPACT_DENSITY", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IMPACT_DENSITY")
}

func TestLoad_InvalidBackendURL(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "not a url")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BACKEND_BASE_URL")
}

func TestLoad_InvalidZoom(t *testing.T) {
	t.Setenv("MAP_INITIAL_ZOOM", "two")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAP_INITIAL_ZOOM")
}

func TestLoad_InvalidCacheSizeFallsBack(t *testing.T) {
	t.Setenv("SIMULATION_CACHE_SIZE", "-3")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.SimulationCacheSize)
}
