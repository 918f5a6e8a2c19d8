package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kvasnytska/safetrip/internal/mapview"
	"github.com/kvasnytska/safetrip/internal/models"
	"github.com/kvasnytska/safetrip/internal/service"
	"github.com/kvasnytska/safetrip/internal/transport"
)

type coordRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type transportRequest struct {
	Mode models.TransportMode `json:"mode"`
}

type guardianRequest struct {
	Phone string `json:"phone"`
}

// startRequest carries the estimated-time input verbatim. Validation
// belongs to the session service, so even an empty value must decode and
// reach it; only malformed JSON is a transport error.
type startRequest struct {
	Minutes string `json:"minutes"`
}

type stateResponse struct {
	Map           mapview.Snapshot      `json:"map"`
	Transport     *models.TransportMode `json:"transport,omitempty"`
	Guardians     []string              `json:"guardians"`
	Notifications []models.Notification `json:"notifications"`
	Session       *models.Session       `json:"session,omitempty"`
	Active        bool                  `json:"active"`
}

// decode parses the JSON request body into v. Malformed bodies get a 400;
// everything past decoding speaks through the notification feed.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.ErrorContext(r.Context(), "failed to write reply", "error", err)
	}
}

// handleState returns the full state snapshot so late-joining clients can
// render without replaying the event stream.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	resp := stateResponse{
		Map:           s.adapter.Snapshot(),
		Guardians:     s.registry.Entries(),
		Notifications: s.feed.Entries(),
		Active:        s.sessions.Active(),
	}
	if mode, ok := s.selector.Mode(); ok {
		resp.Transport = &mode
	}
	if session, ok := s.sessions.CurrentSession(); ok {
		resp.Session = &session
	}
	s.respond(w, r, resp)
}

// handleDestination places the destination marker from a map click.
func (s *Server) handleDestination(w http.ResponseWriter, r *http.Request) {
	var req coordRequest
	if !s.decode(w, r, &req) {
		return
	}
	coord := models.Coordinates{Latitude: req.Lat, Longitude: req.Lng}
	if err := s.adapter.PlaceDestinationMarker(coord); err != nil {
		s.log.ErrorContext(r.Context(), "failed to place destination", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTransport(w http.ResponseWriter, r *http.Request) {
	var req transportRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.selector.Select(req.Mode); err != nil {
		if errors.Is(err, transport.ErrUnknownMode) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.log.ErrorContext(r.Context(), "failed to select transport", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGuardianAdd(w http.ResponseWriter, r *http.Request) {
	var req guardianRequest
	if !s.decode(w, r, &req) {
		return
	}
	added := s.registry.Add(req.Phone)
	s.respond(w, r, map[string]bool{"added": added})
}

func (s *Server) handleGuardianRemove(w http.ResponseWriter, r *http.Request) {
	var req guardianRequest
	if !s.decode(w, r, &req) {
		return
	}
	removed := s.registry.Remove(req.Phone)
	s.respond(w, r, map[string]bool{"removed": removed})
}

// handlePosition accepts a geolocation fix reported by the browser.
func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	if s.device == nil {
		http.Error(w, "position reporting is disabled", http.StatusNotFound)
		return
	}
	var req coordRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.device.Report(models.Coordinates{Latitude: req.Lat, Longitude: req.Lng})
	w.WriteHeader(http.StatusNoContent)
}

// handleStart runs the start transition. Precondition failures are not
// HTTP errors: the notice has already been posted to the feed.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !s.decode(w, r, &req) {
		return
	}
	started := s.sessions.Start(req.Minutes)
	s.respond(w, r, map[string]bool{"started": started})
}

func (s *Server) handleStop(w http.ResponseWriter, _ *http.Request) {
	s.sessions.Stop()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSOS(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.TriggerSOS(service.ReasonManual); err != nil {
		if errors.Is(err, service.ErrNotActive) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		s.log.ErrorContext(r.Context(), "SOS failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
