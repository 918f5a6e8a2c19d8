package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SessionsStarted      prometheus.Counter
	SessionsEnded        *prometheus.CounterVec
	ActiveSessions       prometheus.Gauge
	LocationUpdates      prometheus.Counter
	NotificationsPosted  prometheus.Counter
	ValidationRejections *prometheus.CounterVec
	GeocodeSeconds       *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		SessionsStarted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "safetrip_sessions_started_total",
			Help: "Total number of sharing sessions started.",
		}),
		SessionsEnded: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "safetrip_sessions_ended_total",
			Help: "Total number of sharing sessions ended, by outcome.",
		}, []string{"outcome"}),
		ActiveSessions: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "safetrip_active_sessions",
			Help: "Current number of active sharing sessions.",
		}),
		LocationUpdates: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "safetrip_location_updates_total",
			Help: "Total number of position fixes processed during sharing.",
		}),
		NotificationsPosted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "safetrip_notifications_posted_total",
			Help: "Total number of notifications appended to the alert feed.",
		}),
		ValidationRejections: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "safetrip_validation_rejections_total",
			Help: "Total number of session starts rejected, by failed precondition.",
		}, []string{"precondition"}),
		GeocodeSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "safetrip_geocode_request_duration_seconds",
			Help:    "Duration of requests to the reverse-geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
	}
}
