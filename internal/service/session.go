package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kvasnytska/safetrip/internal/geocoding"
	"github.com/kvasnytska/safetrip/internal/guardians"
	"github.com/kvasnytska/safetrip/internal/location"
	"github.com/kvasnytska/safetrip/internal/mapview"
	"github.com/kvasnytska/safetrip/internal/metrics"
	"github.com/kvasnytska/safetrip/internal/models"
	"github.com/kvasnytska/safetrip/internal/notify"
	"github.com/kvasnytska/safetrip/internal/transport"
)

// SOS reasons. ReasonTimeExceeded is produced by countdown expiry,
// ReasonManual by the SOS button.
const (
	ReasonTimeExceeded = "Estimated time exceeded"
	ReasonManual       = "Manual SOS triggered"
)

// Validation notices posted when a start precondition fails.
const (
	noticeNoDestination = "Please set a destination first"
	noticeNoTransport   = "Please select a transport method"
	noticeNoGuardians   = "Please add at least one guardian"
	noticeNoDuration    = "Please enter estimated time"
)

// geocodeTimeout bounds the reverse-geocoding lookup during an SOS so a
// slow provider cannot delay the alert.
const geocodeTimeout = 3 * time.Second

var (
	// ErrNotActive is returned when stop or SOS is requested without an active session.
	ErrNotActive = errors.New("no sharing session is active")
	// ErrNoKnownLocation is returned when SOS fires before any position fix arrived.
	// The user marker must exist before a session can be active, so hitting this
	// is an invariant violation, not a user mistake.
	ErrNoKnownLocation = errors.New("current location is unknown")
)

// SessionService is the state machine for a sharing session:
// idle -> active -> (stopped | SOS-triggered) -> idle. It owns the
// countdown timer and the location watch, and orchestrates the map
// surface, guardian registry and alert feed on every transition.
type SessionService struct {
	log          *slog.Logger        // Logger for logging service activities
	metrics      *metrics.Metrics    // Metrics for tracking service activity
	surface      *mapview.Adapter    // Map surface holding the markers and route overlay
	source       location.Source     // Position source driving the user marker
	selector     *transport.Selector // Currently chosen transport mode
	guardians    *guardians.Registry // Contacts notified about the trip
	feed         *notify.Feed        // Alert feed standing in for guardian delivery
	geocoder     geocoding.Provider  // Optional reverse geocoder enriching SOS alerts
	geocoderName string              // Name of the geocoding provider for metrics labeling
	shareBaseURL string              // Base URL for trip share links

	onCountdown   func(string) // Renders the remaining time; may be nil
	onStateChange func(bool)   // Reflects the active flag into UI affordances; may be nil

	now       func() time.Time
	tickEvery time.Duration

	mu            sync.Mutex
	session       *models.Session
	countdownDone chan struct{}
	stopWatch     func()
}

// NewSessionService creates a new instance of SessionService. The geocoder
// may be nil, in which case SOS alerts carry only the coordinates link.
func NewSessionService(
	log *slog.Logger,
	appMetrics *metrics.Metrics,
	surface *mapview.Adapter,
	source location.Source,
	selector *transport.Selector,
	registry *guardians.Registry,
	feed *notify.Feed,
	geocoder geocoding.Provider,
	geocoderName string,
	shareBaseURL string,
) *SessionService {
	return &SessionService{
		log:          log,
		metrics:      appMetrics,
		surface:      surface,
		source:       source,
		selector:     selector,
		guardians:    registry,
		feed:         feed,
		geocoder:     geocoder,
		geocoderName: geocoderName,
		shareBaseURL: shareBaseURL,
		now:          time.Now,
		tickEvery:    time.Second,
	}
}

// OnCountdown registers the renderer invoked with the formatted remaining
// time on every countdown tick.
func (s *SessionService) OnCountdown(render func(string)) {
	s.onCountdown = render
}

// OnStateChange registers the listener invoked whenever the session
// becomes active or returns to idle.
func (s *SessionService) OnStateChange(listener func(bool)) {
	s.onStateChange = listener
}

// Start validates the preconditions in order (destination, transport,
// guardians, duration) and, if all hold, transitions to Active: records
// the start time, starts the countdown and the location watch, draws the
// initial route and notifies guardians. The first failing precondition
// posts one specific notice and leaves all state untouched. It reports
// whether a session was started.
func (s *SessionService) Start(estimatedMinutes string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil {
		s.log.Debug("Ignoring start request, session already active")
		return false
	}

	if !s.surface.HasDestination() {
		s.reject("destination", noticeNoDestination)
		return false
	}
	if _, ok := s.selector.Mode(); !ok {
		s.reject("transport", noticeNoTransport)
		return false
	}
	if s.guardians.Len() == 0 {
		s.reject("guardians", noticeNoGuardians)
		return false
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(estimatedMinutes))
	if err != nil || minutes <= 0 {
		s.reject("duration", noticeNoDuration)
		return false
	}

	estimated := time.Duration(minutes) * time.Minute
	startedAt := s.now()
	session := &models.Session{
		ID:         uuid.NewString(),
		ShareToken: uuid.NewString(),
		StartedAt:  startedAt,
		EndsAt:     startedAt.Add(estimated),
		Estimated:  estimated,
	}
	s.session = session
	s.surface.SetSessionActive(true)

	s.countdownDone = make(chan struct{})
	go s.runCountdown(session.EndsAt, s.countdownDone)

	s.stopWatch = s.source.Watch(context.Background(), s.handleFix, s.handleWatchError)

	if err := s.surface.RecomputeRoute(); err != nil {
		s.log.Error("Failed to draw initial route", "error", err)
	}

	shareURL := fmt.Sprintf("%s/%s", s.shareBaseURL, session.ShareToken)
	s.feed.Post(fmt.Sprintf(
		`Location sharing started. Follow the trip at <a href="%s" target="_blank">%s</a>`,
		shareURL, shareURL,
	))

	s.metrics.SessionsStarted.Inc()
	s.metrics.ActiveSessions.Inc()
	s.notifyState(true)
	s.log.Info("Sharing session started",
		"session", session.ID, "estimated_minutes", minutes, "guardians", s.guardians.Len())
	return true
}

// Stop performs the manual Active -> Stopped transition: cancels the
// countdown and the location watch, removes the route overlay and posts a
// "sharing stopped" notification. Calling it while idle is a no-op.
func (s *SessionService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return
	}
	s.stopLocked("stopped")
}

// TriggerSOS performs the Active -> SOSTriggered transition: it builds an
// alert with the reason, a map link to the current coordinate and a
// timestamp, posts it to guardians and then performs the full stop
// transition. The countdown calls it with ReasonTimeExceeded on expiry.
func (s *SessionService) TriggerSOS(reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return ErrNotActive
	}

	coord, known := s.surface.UserCoordinates()
	if !known {
		s.log.Error("SOS refused, no known current location", "reason", reason)
		s.feed.Post("Internal error: cannot send SOS, current location is unknown")
		return ErrNoKnownLocation
	}

	message := fmt.Sprintf(
		`SOS ALERT! Reason: %s. Current Location: <a href="%s" target="_blank">View on Google Maps</a>`,
		reason, coord.MapsLink(),
	)
	if address := s.resolveAddress(coord); address != "" {
		message += fmt.Sprintf(" (near %s)", address)
	}
	message += ". Time: " + s.now().Format("15:04:05")

	s.feed.Post(message)
	s.feed.Post("SOS alert sent to guardians")
	s.log.Warn("SOS triggered", "session", s.session.ID, "reason", reason,
		"lat", coord.Latitude, "lng", coord.Longitude)

	outcome := "sos_manual"
	if reason == ReasonTimeExceeded {
		outcome = "sos_timeout"
	}
	s.stopLocked(outcome)
	return nil
}

// Active reports whether a sharing session is currently running.
func (s *SessionService) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil
}

// CurrentSession returns a copy of the active session, if any.
func (s *SessionService) CurrentSession() (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return models.Session{}, false
	}
	return *s.session, true
}

// stopLocked tears the active session down. Every exit path (manual stop,
// manual SOS, countdown expiry) funnels through here so the countdown and
// the watch are cancelled exactly once. Callers must hold s.mu.
func (s *SessionService) stopLocked(outcome string) {
	close(s.countdownDone)
	s.countdownDone = nil
	s.stopWatch()
	s.stopWatch = nil

	sessionID := s.session.ID
	s.session = nil
	s.surface.SetSessionActive(false)
	if err := s.surface.ClearRoute(); err != nil {
		s.log.Error("Failed to clear route overlay", "error", err)
	}

	s.feed.Post("Location sharing stopped")
	s.metrics.ActiveSessions.Dec()
	s.metrics.SessionsEnded.WithLabelValues(outcome).Inc()
	s.notifyState(false)
	s.log.Info("Sharing session ended", "session", sessionID, "outcome", outcome)
}

// runCountdown recomputes the remaining time on a fixed cadence and
// renders it. When the remaining time reaches zero it stops ticking and
// triggers SOS exactly once; the done channel ends it on manual exits.
func (s *SessionService) runCountdown(endsAt time.Time, done chan struct{}) {
	ticker := time.NewTicker(s.tickEvery)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			remaining := endsAt.Sub(s.now())
			if remaining <= 0 {
				err := s.TriggerSOS(ReasonTimeExceeded)
				if errors.Is(err, ErrNoKnownLocation) {
					// The alert cannot be sent, but the session must not
					// outlive its own countdown.
					s.mu.Lock()
					if s.session != nil {
						s.stopLocked("sos_timeout")
					}
					s.mu.Unlock()
				} else if err != nil {
					// The session was torn down between the tick and the
					// trigger; nothing left to do.
					s.log.Debug("Countdown expiry found no active session", "error", err)
				}
				return
			}
			if s.onCountdown != nil {
				s.onCountdown(FormatCountdown(remaining))
			}
		}
	}
}

// handleFix processes one position fix while sharing: the user marker is
// replaced at the new coordinate and the route overlay recomputed. This is
// the only path that keeps the route in sync with real movement. A fix
// already in flight when the session ends is discarded, so the route
// overlay never reappears while idle.
func (s *SessionService) handleFix(coord models.Coordinates) {
	s.mu.Lock()
	active := s.session != nil
	s.mu.Unlock()
	if !active {
		return
	}
	if err := s.surface.PlaceUserMarker(coord, s.selector.Icon()); err != nil {
		s.log.Error("Failed to place user marker", "error", err)
		return
	}
	if err := s.surface.RecomputeRoute(); err != nil {
		s.log.Error("Failed to recompute route", "error", err)
	}
	s.metrics.LocationUpdates.Inc()
}

// handleWatchError surfaces a tracking failure as a notice; the session
// keeps running in a degraded mode.
func (s *SessionService) handleWatchError(err error) {
	s.feed.Post("Error tracking location: " + err.Error())
}

// resolveAddress asks the configured reverse geocoder for a human-readable
// address. Failures degrade to an empty string; the alert then carries
// only the coordinates link.
func (s *SessionService) resolveAddress(coord models.Coordinates) string {
	if s.geocoder == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), geocodeTimeout)
	defer cancel()

	startTime := time.Now()
	address, err := s.geocoder.ReverseGeocode(ctx, coord)
	s.metrics.GeocodeSeconds.WithLabelValues(s.geocoderName).Observe(time.Since(startTime).Seconds())
	if err != nil {
		s.log.Warn("Failed to resolve SOS address", "error", err)
		return ""
	}
	return address
}

func (s *SessionService) reject(precondition, notice string) {
	s.metrics.ValidationRejections.WithLabelValues(precondition).Inc()
	s.feed.Post(notice)
	s.log.Debug("Start rejected", "precondition", precondition)
}

func (s *SessionService) notifyState(active bool) {
	if s.onStateChange != nil {
		s.onStateChange(active)
	}
}

// FormatCountdown renders a remaining duration as zero-padded
// hours:minutes:seconds. Hours accumulate past 24 instead of rolling over
// into days.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
