package notify_test

import (
	"log/slog"
	"testing"

	"github.com/kvasnytska/safetrip/internal/metrics"
	"github.com/kvasnytska/safetrip/internal/models"
	"github.com/kvasnytska/safetrip/internal/notify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeed_Post(t *testing.T) {
	logger := slog.Default()

	t.Run("keeps entries most recent first", func(t *testing.T) {
		feed := notify.NewFeed(logger, nil, nil)

		feed.Post("first")
		feed.Post("second")
		feed.Post("third")

		entries := feed.Entries()
		require.Len(t, entries, 3)
		assert.Equal(t, "third", entries[0].Body)
		assert.Equal(t, "second", entries[1].Body)
		assert.Equal(t, "first", entries[2].Body)
	})

	t.Run("fires onPost for every entry", func(t *testing.T) {
		var seen []string
		feed := notify.NewFeed(logger, nil, func(n models.Notification) {
			seen = append(seen, n.Body)
		})

		feed.Post("hello")
		feed.Post("world")

		assert.Equal(t, []string{"hello", "world"}, seen)
	})

	t.Run("counts posted notifications", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		appMetrics := metrics.NewMetrics(reg)
		feed := notify.NewFeed(logger, appMetrics, nil)

		feed.Post("one")
		feed.Post("two")

		assert.InDelta(t, 2.0, testutil.ToFloat64(appMetrics.NotificationsPosted), 0.001)
	})
}

func TestFeed_EntriesIsACopy(t *testing.T) {
	feed := notify.NewFeed(slog.Default(), nil, nil)
	feed.Post("original")

	entries := feed.Entries()
	entries[0].Body = "mutated"

	assert.Equal(t, "original", feed.Entries()[0].Body)
}
