package location

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kvasnytska/safetrip/internal/models"
)

// SourceType represents the kind of location source to run.
type SourceType string

const (
	// SourceTypeDevice feeds fixes reported by the user's device.
	SourceTypeDevice SourceType = "device"
	// SourceTypeSimulated emits a simulated random walk.
	SourceTypeSimulated SourceType = "simulated"
)

// SourceConfig holds configuration for creating a location source.
type SourceConfig struct {
	Type     SourceType         // Type of source to create
	Origin   models.Coordinates // Starting point (used by the simulated source)
	Step     float64            // Maximum drift per tick in degrees (simulated source)
	Interval time.Duration      // Emission cadence (simulated source)
	Logger   *slog.Logger       // Logger for the source
}

// NewSource creates a location source based on the provided configuration.
//
// Supported source types:
// - "device": positions posted by the browser's real geolocation
// - "simulated": a ticker-driven random walk, useful without a device
//
// Returns an error if the source type is unsupported.
func NewSource(config SourceConfig) (Source, error) {
	switch config.Type {
	case SourceTypeDevice:
		return NewDeviceSource(config.Logger), nil
	case SourceTypeSimulated:
		step := config.Step
		if step == 0 {
			step = 0.0005
		}
		interval := config.Interval
		if interval == 0 {
			interval = 3 * time.Second
		}
		return NewSimulatedSource(config.Logger, config.Origin, step, interval), nil
	default:
		return nil, fmt.Errorf("unsupported source type: %s", config.Type)
	}
}
