package backend

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/impact-map/internal/domain"
	"github.com/couchcryptid/impact-map/internal/observability"
)

// maxBodyBytes bounds how much of a backend response is read.
const maxBodyBytes = 8 << 20

// Client implements domain.Simulator against the impact simulation HTTP API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	asteroidsPath  string
	simulationPath string
	metrics        *observability.Metrics
	logger         *slog.Logger
}

// NewClient creates a simulation backend client. The timeout applies to each
// request as a whole.
func NewClient(baseURL, asteroidsPath, simulationPath string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:        strings.TrimRight(baseURL, "/"),
		asteroidsPath:  asteroidsPath,
		simulationPath: simulationPath,
		metrics:        metrics,
		logger:         logger,
	}
}

// ListAsteroids fetches the near-earth object catalogue.
func (c *Client) ListAsteroids(ctx context.Context) ([]domain.NearEarthObject, error) {
	body, err := c.doRequest(ctx, c.baseURL+c.asteroidsPath, "asteroids")
	if err != nil {
		return nil, err
	}
	return DecodeAsteroids(body)
}

// SimulateImpact runs one simulation.
func (c *Client) SimulateImpact(ctx context.Context, req domain.ImpactRequest) (domain.SimulationResult, error) {
	params := url.Values{
		"diameter": {formatFloat(req.DiameterM)},
		"velocity": {formatFloat(req.VelocityMS)},
		"angle":    {formatFloat(req.AngleDeg)},
		"density":  {formatFloat(req.DensityKgM3)},
		"lat":      {formatFloat(req.Point.Lat)},
		"lon":      {formatFloat(req.Point.Lon)},
		"target":   {string(req.Target)},
	}

	body, err := c.doRequest(ctx, c.baseURL+c.simulationPath+"?"+params.Encode(), "simulation")
	if err != nil {
		return domain.SimulationResult{}, err
	}

	result, skipped, err := DecodeSimulation(body)
	if err != nil {
		return domain.SimulationResult{}, err
	}
	if len(skipped) > 0 {
		c.logger.Warn("skipped unknown blast levels", "keys", skipped)
	}
	if result.Seismic != nil && len(result.Seismic.RejectedKeys) > 0 {
		c.logger.Warn("skipped seismic bands with invalid distance keys", "keys", result.Seismic.RejectedKeys)
	}
	return result, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.BackendRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend API error: %s: status %d: %s", endpoint, resp.StatusCode, truncate(body, 256))
	}

	c.logger.Debug("backend request complete", "endpoint", endpoint, "status", resp.StatusCode, "bytes", len(body))
	return body, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
