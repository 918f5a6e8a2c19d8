// Package transport tracks the transport mode picked for the trip.
package transport

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kvasnytska/safetrip/internal/mapview"
	"github.com/kvasnytska/safetrip/internal/models"
)

// ErrUnknownMode is returned when a mode outside the supported set is selected.
var ErrUnknownMode = errors.New("unknown transport mode")

// Selector holds the currently chosen transport mode and keeps the user
// marker styled with the matching icon.
type Selector struct {
	mu       sync.Mutex
	log      *slog.Logger
	surface  *mapview.Adapter
	mode     models.TransportMode
	selected bool
	onSelect func(models.TransportMode) // lets the UI mark exactly one affordance selected
}

// NewSelector creates a Selector with no mode chosen. The onSelect
// callback fires after every successful selection; it may be nil.
func NewSelector(log *slog.Logger, surface *mapview.Adapter, onSelect func(models.TransportMode)) *Selector {
	return &Selector{log: log, surface: surface, onSelect: onSelect}
}

// Select sets the active mode and, if a user marker exists, re-renders it
// with the new icon at its current coordinate.
func (s *Selector) Select(mode models.TransportMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}

	s.mu.Lock()
	s.mode = mode
	s.selected = true
	s.mu.Unlock()

	s.log.Debug("Transport selected", "mode", mode)

	if err := s.surface.RestyleUserMarker(mode.Icon()); err != nil {
		return fmt.Errorf("failed to restyle user marker: %w", err)
	}
	if s.onSelect != nil {
		s.onSelect(mode)
	}
	return nil
}

// Mode returns the active mode and whether one has been selected.
func (s *Selector) Mode() (models.TransportMode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode, s.selected
}

// Icon returns the icon for the active mode, or the walking icon when no
// mode has been selected yet.
func (s *Selector) Icon() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.selected {
		return models.TransportWalking.Icon()
	}
	return s.mode.Icon()
}
