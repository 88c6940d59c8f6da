package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/couchcryptid/impact-map/internal/app"
	"github.com/couchcryptid/impact-map/internal/domain"
	"github.com/couchcryptid/impact-map/internal/effects"
)

const maxRequestBytes = 1 << 16

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: request body: %v", app.ErrInvalidParameter, err)
	}
	return nil
}

// statusFor maps controller errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, app.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, effects.ErrNoImpactPoint):
		return http.StatusPreconditionFailed
	case errors.Is(err, effects.ErrMapUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) respond(w http.ResponseWriter, err error) {
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.controller.State())
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, nil)
}

func (s *Server) handleParameters(w http.ResponseWriter, r *http.Request) {
	var p app.Parameters
	if err := decodeBody(r, &p); err != nil {
		s.respond(w, err)
		return
	}
	s.respond(w, s.controller.SetParameters(p))
}

func (s *Server) handleCarouselSelect(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Index int `json:"index"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.respond(w, err)
		return
	}
	s.respond(w, s.controller.Select(body.Index))
}

func (s *Server) handleCarouselNext(w http.ResponseWriter, _ *http.Request) {
	s.controller.Next()
	s.respond(w, nil)
}

func (s *Server) handleCarouselPrev(w http.ResponseWriter, _ *http.Request) {
	s.controller.Prev()
	s.respond(w, nil)
}

func (s *Server) handleImpact(w http.ResponseWriter, r *http.Request) {
	var p domain.LatLng
	if err := decodeBody(r, &p); err != nil {
		s.respond(w, err)
		return
	}
	if !p.Valid() {
		s.respond(w, fmt.Errorf("%w: impact point %s", app.ErrInvalidParameter, p))
		return
	}
	s.respond(w, s.controller.SetImpact(p))
}

func (s *Server) handleDismissHelp(w http.ResponseWriter, _ *http.Request) {
	s.controller.DismissHelp()
	s.respond(w, nil)
}

// handleSimulate reports backend failures in the returned state's error
// panel with a 200, as the page shows them there. Only requests the
// controller refuses outright get an error status.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	err := s.controller.Simulate(r.Context())
	switch {
	case err == nil:
		s.respond(w, nil)
	case errors.Is(err, app.ErrBusy), errors.Is(err, effects.ErrNoImpactPoint), errors.Is(err, effects.ErrMapUnavailable):
		s.respond(w, err)
	default:
		s.logger.Debug("simulation failed, error panel shown", "error", err)
		s.respond(w, nil)
	}
}

func (s *Server) handleClosePanel(w http.ResponseWriter, _ *http.Request) {
	s.controller.ClosePanel()
	s.respond(w, nil)
}

func (s *Server) handleClearEffects(w http.ResponseWriter, _ *http.Request) {
	s.controller.ClearEffects()
	s.respond(w, nil)
}

type visibilityRequest struct {
	Visible bool `json:"visible"`
}

func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request) {
	cat, err := domain.ParseCategory(r.PathValue("category"))
	if err != nil {
		s.respond(w, fmt.Errorf("%w: %v", app.ErrInvalidParameter, err))
		return
	}
	var body visibilityRequest
	if err := decodeBody(r, &body); err != nil {
		s.respond(w, err)
		return
	}
	s.controller.SetVisible(cat, body.Visible)
	s.respond(w, nil)
}

func (s *Server) handleVisibilityAll(w http.ResponseWriter, r *http.Request) {
	var body visibilityRequest
	if err := decodeBody(r, &body); err != nil {
		s.respond(w, err)
		return
	}
	s.controller.SetAllVisible(body.Visible)
	s.respond(w, nil)
}

// handleColorblind applies the mode even when persisting it fails; the
// failure is logged by the controller and the new state is returned.
func (s *Server) handleColorblind(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.respond(w, err)
		return
	}
	_ = s.controller.SetColorblind(r.Context(), body.Enabled)
	s.respond(w, nil)
}
