package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kvasnytska/safetrip/internal/mapview"
	"github.com/kvasnytska/safetrip/internal/models"
)

const (
	// Time allowed to write a message to the client.
	writeWait = 10 * time.Second

	// Send pings to client with this period.
	pingPeriod = 15 * time.Second

	// Per-client event buffer; clients that fall this far behind are dropped.
	clientBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// Hub fans events out to connected websocket clients. It also implements
// mapview.Surface, so every map mutation the adapter performs is streamed
// to the browsers rendering the actual widget.
type Hub struct {
	log *slog.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan Event
}

// NewHub creates a Hub with no clients.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:     log,
		clients: make(map[*client]struct{}),
	}
}

// Broadcast queues the event for every connected client. Slow clients are
// disconnected rather than allowed to stall the rest.
func (h *Hub) Broadcast(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- event:
		default:
			h.log.Warn("Dropping slow websocket client")
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeWS upgrades the request to a websocket and streams events to it
// until the client goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("Failed to upgrade websocket", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan Event, clientBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.log.Debug("Websocket client connected")

	go h.writePump(c)
	go h.readPump(c)
}

// writePump delivers queued events and keeps the connection alive with pings.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				h.drop(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.drop(c)
				return
			}
		}
	}
}

// readPump discards inbound messages; its job is noticing the close.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.drop(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// mapview.Surface implementation: each operation becomes one event.

func (h *Hub) SetView(center models.Coordinates, zoom int) {
	h.Broadcast(Event{Type: eventMapView, Payload: viewPayload{Center: center, Zoom: zoom}})
}

func (h *Hub) AddMarker(m mapview.Marker) {
	h.Broadcast(Event{Type: eventMarkerAdded, Payload: m})
}

func (h *Hub) RemoveMarker(id string) {
	h.Broadcast(Event{Type: eventMarkerRemoved, Payload: removePayload{ID: id}})
}

func (h *Hub) DrawPolyline(id string, points []models.Coordinates, style mapview.LineStyle) {
	h.Broadcast(Event{Type: eventRouteDrawn, Payload: struct {
		ID     string               `json:"id"`
		Points []models.Coordinates `json:"points"`
		Style  mapview.LineStyle    `json:"style"`
	}{ID: id, Points: points, Style: style}})
}

func (h *Hub) RemovePolyline(id string) {
	h.Broadcast(Event{Type: eventRouteRemoved, Payload: removePayload{ID: id}})
}

func (h *Hub) FitBounds(southWest, northEast models.Coordinates, padding int) {
	h.Broadcast(Event{Type: eventViewportFit, Payload: fitPayload{
		SouthWest: southWest,
		NorthEast: northEast,
		Padding:   padding,
	}})
}

// Page-state broadcasts. These are wired as component callbacks so every
// connected client sees feed, guardian, transport and session changes.

func (h *Hub) NotifyNotice(n models.Notification) {
	h.Broadcast(Event{Type: eventNotice, Payload: n})
}

func (h *Hub) NotifyGuardians(entries []string) {
	h.Broadcast(Event{Type: eventGuardians, Payload: entries})
}

func (h *Hub) NotifyTransport(mode models.TransportMode) {
	h.Broadcast(Event{Type: eventTransport, Payload: mode})
}

func (h *Hub) NotifyCountdown(rendered string) {
	h.Broadcast(Event{Type: eventCountdown, Payload: rendered})
}

func (h *Hub) NotifySession(active bool) {
	h.Broadcast(Event{Type: eventSession, Payload: sessionPayload{Active: active}})
}
