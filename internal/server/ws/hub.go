// Package ws implements the live-update broadcast hub. Every accepted bid is
// fanned out as one JSON event to all connected WebSocket subscribers, in
// commit order. The hub is decoupled from bid admission: a failing or slow
// subscriber is evicted and never affects other subscribers or the bidder.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cedarhall/gavelhouse/internal/domain"
)

const (
	// writeWait bounds a single write to a subscriber; a hung connection
	// fails the write and gets the subscriber evicted rather than stalling
	// the hub.
	writeWait = 10 * time.Second

	// pongWait is the maximum time to wait for a pong from the client.
	pongWait = 60 * time.Second

	// pingPeriod sends pings at this interval. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize caps incoming frames. Clients have no server-bound
	// protocol; anything they send is read and discarded.
	maxMessageSize = 512

	// sendBufferSize is the per-subscriber outgoing event buffer. A
	// subscriber that falls this far behind is treated as failed.
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The frontend is served from the same process; viewers may also
		// embed the board elsewhere, so all origins are accepted.
		return true
	},
}

// client is one live subscriber connection. It carries no state beyond its
// transport handle and ordered send buffer.
type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub owns the set of live subscriber connections. Registration,
// deregistration, and fan-out all flow through the Run loop, so the set is
// mutated from a single goroutine while Broadcast and HandleWS may be called
// concurrently from any request context.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	logger     *slog.Logger

	mu      sync.RWMutex
	started bool
}

// NewHub creates a Hub. Run must be started before events are broadcast.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		logger:     logger.With(slog.String("component", "ws_hub")),
	}
}

// Run is the hub's event loop. It exits when the context is cancelled,
// closing every subscriber connection.
func (h *Hub) Run(ctx context.Context) error {
	h.mu.Lock()
	h.started = true
	h.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return ctx.Err()

		case c := <-h.register:
			h.clients[c] = true
			h.logger.Info("subscriber connected",
				slog.Int("total_subscribers", len(h.clients)),
			)

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.logger.Info("subscriber disconnected",
					slog.Int("total_subscribers", len(h.clients)),
				)
			}

		case data := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- data:
				default:
					// Send buffer full: the subscriber is not draining.
					// Evict it and keep delivering to the rest.
					delete(h.clients, c)
					close(c.send)
					h.logger.Warn("evicting slow subscriber",
						slog.Int("total_subscribers", len(h.clients)),
					)
				}
			}
		}
	}
}

// Broadcast enqueues one accepted-bid event for delivery to every current
// subscriber. Calls arrive in commit order and the single hub loop preserves
// that order per subscriber. Broadcast never returns an error to the caller;
// delivery failures are handled by evicting the failing subscriber.
func (h *Hub) Broadcast(receipt domain.BidReceipt) {
	h.mu.RLock()
	started := h.started
	h.mu.RUnlock()
	if !started {
		return
	}

	data, err := receipt.MarshalEvent()
	if err != nil {
		h.logger.Error("marshal broadcast event failed",
			slog.Int64("bid_id", receipt.BidID),
			slog.String("error", err.Error()),
		)
		return
	}
	h.broadcast <- data
}

// HandleWS upgrades the request to a WebSocket connection and registers it as
// a subscriber. The subscriber receives every event broadcast after
// registration until it disconnects or fails.
// GET /ws
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	h.register <- c

	go c.writePump()
	go c.readPump()
}

// readPump drains the connection. There is no client-to-server protocol;
// frames are read only to detect disconnects and answer pings. Remote closes
// are normal events, not errors.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump writes queued events to the connection in order, plus periodic
// pings for keepalive. Any write error terminates the connection.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel (shutdown or eviction).
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
