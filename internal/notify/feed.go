// Package notify implements the append-only alert feed.
//
// In a real deployment guardian delivery would go through an SMS or push
// gateway; here "notifying guardians" means appending to this feed and
// pushing the entry to connected observers.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/kvasnytska/safetrip/internal/metrics"
	"github.com/kvasnytska/safetrip/internal/models"
)

// Feed is an append-only, most-recent-first sequence of notifications.
// Nothing is ever removed from it for the lifetime of the process.
type Feed struct {
	mu      sync.Mutex
	log     *slog.Logger
	metrics *metrics.Metrics
	entries []models.Notification
	onPost  func(models.Notification) // invoked after every post; may be nil
	now     func() time.Time
}

// NewFeed creates an empty Feed. The onPost callback receives every new
// notification, letting the caller stream entries to live observers.
func NewFeed(log *slog.Logger, m *metrics.Metrics, onPost func(models.Notification)) *Feed {
	return &Feed{
		log:     log,
		metrics: m,
		onPost:  onPost,
		now:     time.Now,
	}
}

// Post prepends a new entry to the feed and returns it. The body is
// rendered as rich content downstream, so callers must only pass strings
// this service generated itself.
func (f *Feed) Post(body string) models.Notification {
	entry := models.Notification{Body: body, PostedAt: f.now()}

	f.mu.Lock()
	f.entries = append([]models.Notification{entry}, f.entries...)
	f.mu.Unlock()

	f.log.Debug("Posted notification", "body", body)
	if f.metrics != nil {
		f.metrics.NotificationsPosted.Inc()
	}
	if f.onPost != nil {
		f.onPost(entry)
	}
	return entry
}

// Entries returns a snapshot of the feed, most recent first.
func (f *Feed) Entries() []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := make([]models.Notification, len(f.entries))
	copy(snapshot, f.entries)
	return snapshot
}

// Len returns the number of posted notifications.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}
