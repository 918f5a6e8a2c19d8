package geocoding

import (
	"context"

	"github.com/kvasnytska/safetrip/internal/models"
)

// Provider is an interface that defines a method for reverse geocoding.
// The ReverseGeocode method takes a context and a coordinate pair as
// input, and returns a human-readable address for them, or an error if
// any occurs. SOS alerts use it to enrich the bare coordinates link.
type Provider interface {
	ReverseGeocode(ctx context.Context, coords models.Coordinates) (string, error)
}
