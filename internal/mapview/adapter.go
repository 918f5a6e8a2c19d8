package mapview

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/kvasnytska/safetrip/internal/models"
)

// ErrNotInitialized is returned when an overlay operation is attempted
// before Initialize has been called.
var ErrNotInitialized = errors.New("map surface is not initialized")

// routeStyle is the fixed style of the straight-line route overlay.
var routeStyle = LineStyle{
	Color:     "red",
	Weight:    3,
	Opacity:   0.7,
	DashArray: "10, 10",
}

// routePadding is the viewport padding, in pixels, applied when fitting
// the route into view.
const routePadding = 50

// Snapshot is the adapter's current overlay state, used to bring
// late-joining clients up to date.
type Snapshot struct {
	User        *Marker              `json:"user,omitempty"`
	Destination *Marker              `json:"destination,omitempty"`
	Route       []models.Coordinates `json:"route,omitempty"`
}

// Adapter owns the single map surface and its three overlays: the user
// marker, the destination marker and the route line. At most one of each
// exists at any time. All mutations are serialized by the adapter's mutex
// since marker replacement is a remove-then-add sequence that must be
// observed atomically.
type Adapter struct {
	mu            sync.Mutex
	log           *slog.Logger
	surface       Surface
	initialized   bool
	user          *Marker
	dest          *Marker
	routeID       string
	routePoints   []models.Coordinates
	sessionActive bool
}

// NewAdapter creates an Adapter over the given surface.
func NewAdapter(log *slog.Logger, surface Surface) *Adapter {
	return &Adapter{log: log, surface: surface}
}

// Initialize centers the surface and makes the overlay operations legal.
func (a *Adapter) Initialize(center models.Coordinates, zoom int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.initialized = true
	a.surface.SetView(center, zoom)
}

// PlaceUserMarker replaces the user marker with a new one at the given
// coordinate, styled with the given transport icon.
func (a *Adapter) PlaceUserMarker(coord models.Coordinates, icon string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized {
		return ErrNotInitialized
	}

	if a.user != nil {
		a.surface.RemoveMarker(a.user.ID)
	}
	marker := Marker{
		ID:        uuid.NewString(),
		Position:  coord,
		Icon:      icon,
		Title:     "Your Location",
		Draggable: false,
	}
	a.user = &marker
	a.surface.AddMarker(marker)
	return nil
}

// RestyleUserMarker re-renders the user marker with a new icon at its
// current coordinate. Without a user marker this is a no-op.
func (a *Adapter) RestyleUserMarker(icon string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized {
		return ErrNotInitialized
	}
	if a.user == nil {
		return nil
	}

	a.surface.RemoveMarker(a.user.ID)
	marker := Marker{
		ID:        uuid.NewString(),
		Position:  a.user.Position,
		Icon:      icon,
		Title:     "Your Location",
		Draggable: false,
	}
	a.user = &marker
	a.surface.AddMarker(marker)
	return nil
}

// PlaceDestinationMarker replaces the destination marker with a new
// draggable one at the given coordinate. While a session is active the
// route overlay is recomputed immediately.
func (a *Adapter) PlaceDestinationMarker(coord models.Coordinates) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized {
		return ErrNotInitialized
	}

	if a.dest != nil {
		a.surface.RemoveMarker(a.dest.ID)
	}
	marker := Marker{
		ID:        uuid.NewString(),
		Position:  coord,
		Icon:      "📍",
		Title:     "Destination",
		Draggable: true,
	}
	a.dest = &marker
	a.surface.AddMarker(marker)

	if a.sessionActive {
		a.recomputeRouteLocked()
	}
	return nil
}

// RecomputeRoute replaces the route overlay with a straight line between
// the user and destination markers and fits the viewport around it. With
// either marker absent this is a documented no-op.
func (a *Adapter) RecomputeRoute() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized {
		return ErrNotInitialized
	}
	a.recomputeRouteLocked()
	return nil
}

func (a *Adapter) recomputeRouteLocked() {
	if a.user == nil || a.dest == nil {
		return
	}

	if a.routeID != "" {
		a.surface.RemovePolyline(a.routeID)
	}

	points := []models.Coordinates{a.user.Position, a.dest.Position}
	a.routeID = uuid.NewString()
	a.routePoints = points
	a.surface.DrawPolyline(a.routeID, points, routeStyle)
	southWest, northEast := boundsOf(points)
	a.surface.FitBounds(southWest, northEast, routePadding)
}

// ClearRoute removes the route overlay if one exists.
func (a *Adapter) ClearRoute() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized {
		return ErrNotInitialized
	}
	if a.routeID == "" {
		return nil
	}
	a.surface.RemovePolyline(a.routeID)
	a.routeID = ""
	a.routePoints = nil
	return nil
}

// SetSessionActive tells the adapter whether a sharing session is active,
// which controls route recomputation on destination changes.
func (a *Adapter) SetSessionActive(active bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sessionActive = active
}

// UserCoordinates returns the current user marker position, if one exists.
func (a *Adapter) UserCoordinates() (models.Coordinates, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user == nil {
		return models.Coordinates{}, false
	}
	return a.user.Position, true
}

// HasDestination reports whether a destination marker has been placed.
func (a *Adapter) HasDestination() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dest != nil
}

// Snapshot returns the current overlay state.
func (a *Adapter) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	snap := Snapshot{}
	if a.user != nil {
		user := *a.user
		snap.User = &user
	}
	if a.dest != nil {
		dest := *a.dest
		snap.Destination = &dest
	}
	if len(a.routePoints) > 0 {
		snap.Route = append([]models.Coordinates(nil), a.routePoints...)
	}
	return snap
}

// boundsOf returns the south-west and north-east corners of the smallest
// box containing the points.
func boundsOf(points []models.Coordinates) (models.Coordinates, models.Coordinates) {
	southWest, northEast := points[0], points[0]
	for _, p := range points[1:] {
		if p.Latitude < southWest.Latitude {
			southWest.Latitude = p.Latitude
		}
		if p.Longitude < southWest.Longitude {
			southWest.Longitude = p.Longitude
		}
		if p.Latitude > northEast.Latitude {
			northEast.Latitude = p.Latitude
		}
		if p.Longitude > northEast.Longitude {
			northEast.Longitude = p.Longitude
		}
	}
	return southWest, northEast
}
