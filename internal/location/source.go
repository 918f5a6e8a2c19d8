// Package location provides the host position capability: a one-shot
// fetch and a cancellable continuous watch.
package location

import (
	"context"
	"errors"

	"github.com/kvasnytska/safetrip/internal/models"
)

// ErrUnavailable is returned when the platform declines to provide a
// position fix.
var ErrUnavailable = errors.New("location is unavailable")

// Source is an interface that defines the two position operations.
// Current completes once, either with a coordinate or an error. Watch
// invokes onUpdate on every new fix until the returned stop function is
// called (or ctx is cancelled); stop must be invoked on every
// session-exit path so no fixes are processed after the session ends.
type Source interface {
	Current(ctx context.Context) (models.Coordinates, error)
	Watch(ctx context.Context, onUpdate func(models.Coordinates), onError func(error)) (stop func())
}
