// Command layerplan prints the overlay plan for a saved simulation response:
// every circle the map would draw, in draw order, with its target radius and
// animation timing. It runs the real effect builder against a stopped clock
// and no map, so the output is deterministic.
//
// Usage:
//
//	go run ./cmd/layerplan -in response.json -lat 35.6 -lon 139.7
//	go run ./cmd/layerplan -in response.json -target water -json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/couchcryptid/impact-map/internal/adapter/backend"
	"github.com/couchcryptid/impact-map/internal/domain"
	"github.com/couchcryptid/impact-map/internal/effects"
	"github.com/couchcryptid/impact-map/internal/observability"
	"github.com/jonboulle/clockwork"
)

// planRow is one circle of the plan.
type planRow struct {
	Category domain.Category `json:"category"`
	SubIndex int             `json:"sub_index"`
	RadiusM  float64         `json:"radius_m"`
	Delay    time.Duration   `json:"-"`
	Duration time.Duration   `json:"-"`
	Tooltip  string          `json:"tooltip"`
}

// MarshalJSON reports the timings in milliseconds.
func (r planRow) MarshalJSON() ([]byte, error) {
	type alias planRow
	return json.Marshal(struct {
		alias
		Delay    int64 `json:"delay_ms"`
		Duration int64 `json:"duration_ms"`
	}{alias(r), r.Delay.Milliseconds(), r.Duration.Milliseconds()})
}

func main() {
	in := flag.String("in", "", "path to a simulation response JSON file")
	lat := flag.Float64("lat", 0, "impact latitude")
	lon := flag.Float64("lon", 0, "impact longitude")
	target := flag.String("target", "", "land or water (default: classify from -lat/-lon)")
	asJSON := flag.Bool("json", false, "print the plan as JSON")
	verbose := flag.Bool("v", false, "log skipped keys and empty layers")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*in, domain.LatLng{Lat: *lat, Lon: *lon}, *target, *asJSON, *verbose, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "layerplan:", err)
		os.Exit(1)
	}
}

func run(path string, center domain.LatLng, target string, asJSON, verbose bool, w io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tt, err := parseTarget(target, center)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	rows, err := plan(data, center, tt, logger)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	return writeTable(w, rows)
}

func parseTarget(s string, center domain.LatLng) (domain.TargetType, error) {
	switch s {
	case "":
		if !center.Valid() {
			return "", fmt.Errorf("invalid impact point %s", center)
		}
		return domain.ClassifyTarget(center), nil
	case string(domain.TargetLand), string(domain.TargetWater):
		return domain.TargetType(s), nil
	default:
		return "", fmt.Errorf("unknown target %q: want land or water", s)
	}
}

// plan decodes a simulation response and builds its overlays without a map.
func plan(data []byte, center domain.LatLng, target domain.TargetType, logger *slog.Logger) ([]planRow, error) {
	result, skipped, err := backend.DecodeSimulation(data)
	if err != nil {
		return nil, err
	}
	for _, key := range skipped {
		logger.Warn("blast ring skipped", "key", key)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetricsForTesting()
	store := effects.NewStore(nil)
	animator := effects.NewAnimator(clockwork.NewFakeClock(), 0, metrics)
	builder := effects.NewBuilder(store, animator, logger, metrics)

	circles := builder.Build(ctx, result, center, target)
	rows := make([]planRow, len(circles))
	for i, c := range circles {
		timing := builder.Timing(c.Category())
		rows[i] = planRow{
			Category: c.Category(),
			SubIndex: c.SubIndex(),
			RadiusM:  c.TargetRadius(),
			Delay:    timing.Delay,
			Duration: timing.Duration,
			Tooltip:  c.Tooltip(),
		}
	}
	store.Clear()
	return rows, nil
}

func writeTable(w io.Writer, rows []planRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tSUB\tRADIUS\tDELAY\tDURATION\tTOOLTIP")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
			r.Category, r.SubIndex, domain.FormatDistance(r.RadiusM), r.Delay, r.Duration, r.Tooltip)
	}
	if len(rows) == 0 {
		fmt.Fprintln(tw, "(no overlays)")
	}
	return tw.Flush()
}
