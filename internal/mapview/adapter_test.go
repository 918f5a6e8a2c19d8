package mapview_test

import (
	"log/slog"
	"testing"

	"github.com/kvasnytska/safetrip/internal/mapview"
	"github.com/kvasnytska/safetrip/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSurface records every operation applied to it.
type fakeSurface struct {
	markers   map[string]mapview.Marker
	polylines map[string][]models.Coordinates
	fitCalls  int
	viewCalls int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		markers:   make(map[string]mapview.Marker),
		polylines: make(map[string][]models.Coordinates),
	}
}

func (f *fakeSurface) SetView(models.Coordinates, int) { f.viewCalls++ }
func (f *fakeSurface) AddMarker(m mapview.Marker)      { f.markers[m.ID] = m }
func (f *fakeSurface) RemoveMarker(id string)          { delete(f.markers, id) }
func (f *fakeSurface) DrawPolyline(id string, points []models.Coordinates, _ mapview.LineStyle) {
	f.polylines[id] = points
}
func (f *fakeSurface) RemovePolyline(id string) { delete(f.polylines, id) }
func (f *fakeSurface) FitBounds(_, _ models.Coordinates, _ int) {
	f.fitCalls++
}

func newTestAdapter(t *testing.T) (*mapview.Adapter, *fakeSurface) {
	t.Helper()
	surface := newFakeSurface()
	adapter := mapview.NewAdapter(slog.Default(), surface)
	adapter.Initialize(models.Coordinates{}, 13)
	return adapter, surface
}

func TestAdapter_FailsFastWhenUninitialized(t *testing.T) {
	adapter := mapview.NewAdapter(slog.Default(), newFakeSurface())
	coord := models.Coordinates{Latitude: 1, Longitude: 2}

	require.ErrorIs(t, adapter.PlaceUserMarker(coord, "🚶"), mapview.ErrNotInitialized)
	require.ErrorIs(t, adapter.PlaceDestinationMarker(coord), mapview.ErrNotInitialized)
	require.ErrorIs(t, adapter.RecomputeRoute(), mapview.ErrNotInitialized)
	require.ErrorIs(t, adapter.ClearRoute(), mapview.ErrNotInitialized)
}

func TestAdapter_PlaceUserMarker(t *testing.T) {
	t.Run("at most one user marker exists", func(t *testing.T) {
		adapter, surface := newTestAdapter(t)

		require.NoError(t, adapter.PlaceUserMarker(models.Coordinates{Latitude: 1, Longitude: 1}, "🚶"))
		require.NoError(t, adapter.PlaceUserMarker(models.Coordinates{Latitude: 2, Longitude: 2}, "🚗"))

		assert.Len(t, surface.markers, 1)
		coord, ok := adapter.UserCoordinates()
		require.True(t, ok)
		assert.InEpsilon(t, 2.0, coord.Latitude, 0.0001)
	})

	t.Run("user marker is not draggable", func(t *testing.T) {
		adapter, surface := newTestAdapter(t)

		require.NoError(t, adapter.PlaceUserMarker(models.Coordinates{}, "🚶"))

		for _, m := range surface.markers {
			assert.False(t, m.Draggable)
			assert.Equal(t, "🚶", m.Icon)
		}
	})
}

func TestAdapter_RestyleUserMarker(t *testing.T) {
	t.Run("replaces the marker with the new icon at the same coordinate", func(t *testing.T) {
		adapter, surface := newTestAdapter(t)
		coord := models.Coordinates{Latitude: 3, Longitude: 4}
		require.NoError(t, adapter.PlaceUserMarker(coord, "🚶"))

		require.NoError(t, adapter.RestyleUserMarker("🚌"))

		require.Len(t, surface.markers, 1)
		for _, m := range surface.markers {
			assert.Equal(t, "🚌", m.Icon)
			assert.Equal(t, coord, m.Position)
		}
	})

	t.Run("no-op without a user marker", func(t *testing.T) {
		adapter, surface := newTestAdapter(t)

		require.NoError(t, adapter.RestyleUserMarker("🚌"))

		assert.Empty(t, surface.markers)
	})
}

func TestAdapter_PlaceDestinationMarker(t *testing.T) {
	t.Run("at most one destination marker, draggable", func(t *testing.T) {
		adapter, surface := newTestAdapter(t)

		require.NoError(t, adapter.PlaceDestinationMarker(models.Coordinates{Latitude: 1, Longitude: 1}))
		require.NoError(t, adapter.PlaceDestinationMarker(models.Coordinates{Latitude: 2, Longitude: 2}))

		require.Len(t, surface.markers, 1)
		for _, m := range surface.markers {
			assert.True(t, m.Draggable)
		}
		assert.True(t, adapter.HasDestination())
	})

	t.Run("recomputes the route while a session is active", func(t *testing.T) {
		adapter, surface := newTestAdapter(t)
		require.NoError(t, adapter.PlaceUserMarker(models.Coordinates{Latitude: 1, Longitude: 1}, "🚶"))
		adapter.SetSessionActive(true)

		require.NoError(t, adapter.PlaceDestinationMarker(models.Coordinates{Latitude: 2, Longitude: 2}))

		assert.Len(t, surface.polylines, 1)
		assert.Equal(t, 1, surface.fitCalls)
	})

	t.Run("does not draw a route while idle", func(t *testing.T) {
		adapter, surface := newTestAdapter(t)
		require.NoError(t, adapter.PlaceUserMarker(models.Coordinates{Latitude: 1, Longitude: 1}, "🚶"))

		require.NoError(t, adapter.PlaceDestinationMarker(models.Coordinates{Latitude: 2, Longitude: 2}))

		assert.Empty(t, surface.polylines)
	})
}

func TestAdapter_RecomputeRoute(t *testing.T) {
	t.Run("no-op with a missing endpoint", func(t *testing.T) {
		adapter, surface := newTestAdapter(t)
		require.NoError(t, adapter.PlaceUserMarker(models.Coordinates{Latitude: 1, Longitude: 1}, "🚶"))

		require.NoError(t, adapter.RecomputeRoute())

		assert.Empty(t, surface.polylines)
		assert.Zero(t, surface.fitCalls)
	})

	t.Run("replaces the previous overlay", func(t *testing.T) {
		adapter, surface := newTestAdapter(t)
		require.NoError(t, adapter.PlaceUserMarker(models.Coordinates{Latitude: 1, Longitude: 1}, "🚶"))
		require.NoError(t, adapter.PlaceDestinationMarker(models.Coordinates{Latitude: 2, Longitude: 2}))

		require.NoError(t, adapter.RecomputeRoute())
		require.NoError(t, adapter.PlaceUserMarker(models.Coordinates{Latitude: 1.5, Longitude: 1.5}, "🚶"))
		require.NoError(t, adapter.RecomputeRoute())

		assert.Len(t, surface.polylines, 1)
		assert.Equal(t, 2, surface.fitCalls)
		for _, points := range surface.polylines {
			require.Len(t, points, 2)
			assert.InEpsilon(t, 1.5, points[0].Latitude, 0.0001)
		}
	})
}

func TestAdapter_ClearRoute(t *testing.T) {
	adapter, surface := newTestAdapter(t)
	require.NoError(t, adapter.PlaceUserMarker(models.Coordinates{Latitude: 1, Longitude: 1}, "🚶"))
	require.NoError(t, adapter.PlaceDestinationMarker(models.Coordinates{Latitude: 2, Longitude: 2}))
	require.NoError(t, adapter.RecomputeRoute())

	require.NoError(t, adapter.ClearRoute())
	assert.Empty(t, surface.polylines)

	// clearing again is a no-op
	require.NoError(t, adapter.ClearRoute())
}

func TestAdapter_Snapshot(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	require.NoError(t, adapter.PlaceUserMarker(models.Coordinates{Latitude: 1, Longitude: 1}, "🚶"))
	require.NoError(t, adapter.PlaceDestinationMarker(models.Coordinates{Latitude: 2, Longitude: 2}))
	require.NoError(t, adapter.RecomputeRoute())

	snap := adapter.Snapshot()

	require.NotNil(t, snap.User)
	require.NotNil(t, snap.Destination)
	require.Len(t, snap.Route, 2)
}
