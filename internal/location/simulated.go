package location

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/kvasnytska/safetrip/internal/models"
)

// SimulatedSource emits a random walk around an origin point on a fixed
// cadence. It stands in for a real device during development and demos.
type SimulatedSource struct {
	mu       sync.Mutex
	log      *slog.Logger
	position models.Coordinates
	step     float64
	interval time.Duration
	rnd      *rand.Rand
}

// NewSimulatedSource creates a source that starts at origin and drifts by
// up to step degrees per interval.
func NewSimulatedSource(
	log *slog.Logger,
	origin models.Coordinates,
	step float64,
	interval time.Duration,
) *SimulatedSource {
	return &SimulatedSource{
		log:      log,
		position: origin,
		step:     step,
		interval: interval,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Current returns the simulated position immediately.
func (ss *SimulatedSource) Current(_ context.Context) (models.Coordinates, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.position, nil
}

// Watch advances the walk on every interval tick and delivers each new
// position to onUpdate until stopped.
func (ss *SimulatedSource) Watch(
	ctx context.Context,
	onUpdate func(models.Coordinates),
	_ func(error),
) func() {
	done := make(chan struct{})
	var once sync.Once
	stop := func() { once.Do(func() { close(done) }) }

	go func() {
		ticker := time.NewTicker(ss.interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				onUpdate(ss.advance())
			}
		}
	}()

	return stop
}

func (ss *SimulatedSource) advance() models.Coordinates {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.position.Latitude += (ss.rnd.Float64() - 0.5) * 2 * ss.step
	ss.position.Longitude += (ss.rnd.Float64() - 0.5) * 2 * ss.step
	return ss.position
}
