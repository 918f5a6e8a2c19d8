// Package server exposes the SafeTrip UI affordances over HTTP and
// streams state changes to browser clients over a websocket.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kvasnytska/safetrip/internal/guardians"
	"github.com/kvasnytska/safetrip/internal/location"
	"github.com/kvasnytska/safetrip/internal/mapview"
	"github.com/kvasnytska/safetrip/internal/notify"
	"github.com/kvasnytska/safetrip/internal/service"
	"github.com/kvasnytska/safetrip/internal/transport"
)

//go:embed web
var webFS embed.FS

// Server wires the application components to the HTTP surface: the
// embedded map page, the JSON API and the websocket event stream.
type Server struct {
	log      *slog.Logger
	hub      *Hub
	adapter  *mapview.Adapter
	selector *transport.Selector
	registry *guardians.Registry
	feed     *notify.Feed
	sessions *service.SessionService
	device   *location.DeviceSource // nil unless the device source is configured
	port     int
}

// New creates a Server. The device source may be nil when positions are
// simulated; the position-report endpoint then rejects requests.
func New(
	log *slog.Logger,
	hub *Hub,
	adapter *mapview.Adapter,
	selector *transport.Selector,
	registry *guardians.Registry,
	feed *notify.Feed,
	sessions *service.SessionService,
	device *location.DeviceSource,
	port int,
) *Server {
	return &Server{
		log:      log,
		hub:      hub,
		adapter:  adapter,
		selector: selector,
		registry: registry,
		feed:     feed,
		sessions: sessions,
		device:   device,
		port:     port,
	}
}

// Run starts the application server and blocks until the context is
// cancelled or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	readHeaderTimeout := 5
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Handler(),
		// No write timeout: the websocket stream is long-lived.
		ReadHeaderTimeout: time.Duration(readHeaderTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.InfoContext(ctx, "Starting application server", "port", s.port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownTimeout := 5
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(shutdownTimeout)*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down application server: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("application server failed: %w", err)
		}
		return nil
	}
}

// Handler builds the route table for the application server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	// Share links land followers on the same live map page.
	mux.HandleFunc("GET /trip/{token}", s.handleIndex)
	mux.HandleFunc("GET /ws", s.hub.ServeWS)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/destination", s.handleDestination)
	mux.HandleFunc("POST /api/transport", s.handleTransport)
	mux.HandleFunc("POST /api/guardians", s.handleGuardianAdd)
	mux.HandleFunc("DELETE /api/guardians", s.handleGuardianRemove)
	mux.HandleFunc("POST /api/position", s.handlePosition)
	mux.HandleFunc("POST /api/session/start", s.handleStart)
	mux.HandleFunc("POST /api/session/stop", s.handleStop)
	mux.HandleFunc("POST /api/session/sos", s.handleSOS)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := webFS.ReadFile("web/index.html")
	if err != nil {
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(page); err != nil {
		s.log.ErrorContext(r.Context(), "failed to write page", "error", err)
	}
}
