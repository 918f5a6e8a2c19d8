package server

import (
	"github.com/kvasnytska/safetrip/internal/models"
)

// Event is one message pushed to websocket clients. Clients apply events
// to their local map widget and page state; the server never trusts
// anything back except the plain API calls.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Event types streamed to clients.
const (
	eventMapView       = "map.view"
	eventMarkerAdded   = "marker.added"
	eventMarkerRemoved = "marker.removed"
	eventRouteDrawn    = "route.drawn"
	eventRouteRemoved  = "route.removed"
	eventViewportFit   = "viewport.fit"
	eventCountdown     = "countdown"
	eventGuardians     = "guardians"
	eventTransport     = "transport"
	eventSession       = "session"
	eventNotice        = "notice"
)

type viewPayload struct {
	Center models.Coordinates `json:"center"`
	Zoom   int                `json:"zoom"`
}

type removePayload struct {
	ID string `json:"id"`
}

type fitPayload struct {
	SouthWest models.Coordinates `json:"southWest"`
	NorthEast models.Coordinates `json:"northEast"`
	Padding   int                `json:"padding"`
}

type sessionPayload struct {
	Active bool `json:"active"`
}
