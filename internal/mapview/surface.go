// Package mapview owns the interactive map surface and its overlays.
package mapview

import "github.com/kvasnytska/safetrip/internal/models"

// Marker is a visual handle bound to one coordinate on the surface.
// Markers are replaced, never mutated in place: a position or icon change
// removes the old marker and adds a fresh one.
type Marker struct {
	ID        string             `json:"id"`
	Position  models.Coordinates `json:"position"`
	Icon      string             `json:"icon"`
	Title     string             `json:"title"`
	Draggable bool               `json:"draggable"`
}

// LineStyle describes how a polyline overlay is drawn.
type LineStyle struct {
	Color     string  `json:"color"`
	Weight    int     `json:"weight"`
	Opacity   float64 `json:"opacity"`
	DashArray string  `json:"dashArray"`
}

// Surface is the consumed capability of the external map widget. The
// production implementation streams these operations to browser clients;
// tests substitute a recording fake.
type Surface interface {
	SetView(center models.Coordinates, zoom int)
	AddMarker(m Marker)
	RemoveMarker(id string)
	DrawPolyline(id string, points []models.Coordinates, style LineStyle)
	RemovePolyline(id string)
	FitBounds(southWest, northEast models.Coordinates, padding int)
}
