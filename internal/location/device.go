package location

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kvasnytska/safetrip/internal/models"
)

// DeviceSource is fed by position reports from the user's device (the
// browser posts its geolocation fixes to the API). It fans every report
// out to all active watchers.
type DeviceSource struct {
	mu       sync.Mutex
	log      *slog.Logger
	last     *models.Coordinates
	watchers map[int]func(models.Coordinates)
	waiters  map[int]chan models.Coordinates
	nextID   int
}

// NewDeviceSource creates a DeviceSource with no known position.
func NewDeviceSource(log *slog.Logger) *DeviceSource {
	return &DeviceSource{
		log:      log,
		watchers: make(map[int]func(models.Coordinates)),
		waiters:  make(map[int]chan models.Coordinates),
	}
}

// Report records a fix from the device and delivers it to watchers and to
// any Current call still waiting for a first fix.
func (ds *DeviceSource) Report(coord models.Coordinates) {
	ds.mu.Lock()
	ds.last = &coord
	updates := make([]func(models.Coordinates), 0, len(ds.watchers))
	for _, onUpdate := range ds.watchers {
		updates = append(updates, onUpdate)
	}
	for id, waiter := range ds.waiters {
		waiter <- coord
		delete(ds.waiters, id)
	}
	ds.mu.Unlock()

	ds.log.Debug("Device reported position", "lat", coord.Latitude, "lng", coord.Longitude)
	for _, onUpdate := range updates {
		onUpdate(coord)
	}
}

// Current returns the last reported fix, or waits for the first one.
// It fails with ErrUnavailable when the context ends first.
func (ds *DeviceSource) Current(ctx context.Context) (models.Coordinates, error) {
	ds.mu.Lock()
	if ds.last != nil {
		coord := *ds.last
		ds.mu.Unlock()
		return coord, nil
	}
	waiter := make(chan models.Coordinates, 1)
	id := ds.nextID
	ds.nextID++
	ds.waiters[id] = waiter
	ds.mu.Unlock()

	select {
	case coord := <-waiter:
		return coord, nil
	case <-ctx.Done():
		ds.mu.Lock()
		delete(ds.waiters, id)
		ds.mu.Unlock()
		return models.Coordinates{}, fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
	}
}

// Watch registers onUpdate for every subsequent report. The returned stop
// function unregisters it; calling stop more than once is harmless.
func (ds *DeviceSource) Watch(
	ctx context.Context,
	onUpdate func(models.Coordinates),
	_ func(error),
) func() {
	ds.mu.Lock()
	id := ds.nextID
	ds.nextID++
	ds.watchers[id] = onUpdate
	ds.mu.Unlock()

	stop := func() {
		ds.mu.Lock()
		delete(ds.watchers, id)
		ds.mu.Unlock()
	}

	if ctx != nil && ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			stop()
		}()
	}
	return stop
}
