package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kvasnytska/safetrip/internal/config"
	"github.com/kvasnytska/safetrip/internal/geocoding"
	"github.com/kvasnytska/safetrip/internal/guardians"
	"github.com/kvasnytska/safetrip/internal/location"
	"github.com/kvasnytska/safetrip/internal/mapview"
	"github.com/kvasnytska/safetrip/internal/metrics"
	"github.com/kvasnytska/safetrip/internal/models"
	"github.com/kvasnytska/safetrip/internal/notify"
	"github.com/kvasnytska/safetrip/internal/server"
	"github.com/kvasnytska/safetrip/internal/service"
	"github.com/kvasnytska/safetrip/internal/transport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// The hub fans every surface operation and page-state change out to the
	// connected browsers; the adapter keeps the authoritative map state.
	hub := server.NewHub(logger)
	adapter := mapview.NewAdapter(logger, hub)

	feed := notify.NewFeed(logger, appMetrics, hub.NotifyNotice)
	registry := guardians.NewRegistry(logger, hub.NotifyGuardians)
	selector := transport.NewSelector(logger, adapter, hub.NotifyTransport)

	center := models.Coordinates{Latitude: cfg.MapLatitude, Longitude: cfg.MapLongitude}

	// Create the location source using factory pattern based on configuration
	// This allows runtime selection between device fixes and a simulated walk.
	source, err := location.NewSource(location.SourceConfig{
		Type:   location.SourceType(cfg.SourceType),
		Origin: center,
		Logger: logger,
	})
	if err != nil {
		log.Fatalf("Failed to create location source: %v", err)
	}
	// The position-report endpoint only makes sense for the device source.
	device, _ := source.(*location.DeviceSource)

	// Create geocoding provider using factory pattern based on configuration
	// This allows runtime selection between different providers (Google, Nominatim).
	geocoder, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:   geocoding.ProviderType(cfg.GeocoderType),
		APIKey: cfg.GeocoderKey,
		Logger: logger,
	})
	if err != nil {
		log.Fatalf("Failed to create geocoding provider: %v", err)
	}

	logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.GeocoderType)

	// Init the session service using the assembled components.
	sessions := service.NewSessionService(
		logger,
		appMetrics,
		adapter,
		source,
		selector,
		registry,
		feed,
		geocoder,
		cfg.GeocoderType, // Provider name for metrics
		cfg.ShareBaseURL,
	)
	sessions.OnCountdown(hub.NotifyCountdown)
	sessions.OnStateChange(hub.NotifySession)

	app := server.New(logger, hub, adapter, selector, registry, feed, sessions, device, cfg.Port)

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Start the monitoring server in a goroutine to allow main to listen for signals.
	go startMonitoringServer(ctx, logger, reg, hub, cfg.HealthPort)

	// Center the map and place the user marker from the first available fix.
	go bootstrapMap(ctx, logger, adapter, selector, feed, source, center, cfg.MapZoom)

	go func() {
		if err := app.Run(ctx); err != nil {
			logger.ErrorContext(ctx, "Application server failed", "error", err)
			stop()
		}
	}()

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	// Log that a shutdown signal has been received.
	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	sessions.Stop()

	// Log graceful shutdown completion.
	logger.InfoContext(ctx, "Application stopped gracefully.")
}

// bootstrapMap initializes the map view and waits for the first position
// fix to place the user marker. A failed fix degrades to a notification;
// the map stays usable at the configured fallback center.
func bootstrapMap(
	ctx context.Context,
	log *slog.Logger,
	adapter *mapview.Adapter,
	selector *transport.Selector,
	feed *notify.Feed,
	source location.Source,
	center models.Coordinates,
	zoom int,
) {
	adapter.Initialize(center, zoom)

	fixTimeout := 30
	fixCtx, cancel := context.WithTimeout(ctx, time.Duration(fixTimeout)*time.Second)
	defer cancel()

	coord, err := source.Current(fixCtx)
	if err != nil {
		log.WarnContext(ctx, "Failed to get initial position", "error", err)
		feed.Post("Error getting location: " + err.Error())
		return
	}

	if err := adapter.PlaceUserMarker(coord, selector.Icon()); err != nil {
		log.ErrorContext(ctx, "Failed to place user marker", "error", err)
	}
}

// startMonitoringServer starts an HTTP server that provides health check and metrics endpoints.
// It listens on the specified port and logs the server's status and any errors encountered.
//
// Parameters:
// - ctx: A context.Context for managing cancellation and timeouts.
// - log: A logger for logging server events and errors.
// - reg: A registry with Prometheus collectors.
// - hub: The websocket hub, reported in the health check body.
// - port: The port number on which the server will listen.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	hub *server.Hub,
	port int,
) {
	http.HandleFunc("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		writer.WriteHeader(http.StatusOK)
		_, err := fmt.Fprintf(writer, "OK, clients: %d", hub.ClientCount())
		if err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", http.StatusOK)
	})
	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	readTimeout := 5
	writeTimeout := 10
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      http.DefaultServeMux,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified	 or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
