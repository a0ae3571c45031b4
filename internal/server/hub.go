package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/papan/internal/logging"
)

const (
	// Time allowed to write a message to the display
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the display
	pongWait = 60 * time.Second

	// Send pings to displays with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Displays only send control frames; anything larger is dropped
	maxMessageSize = 512

	sendBuffer = 16
)

// Message types pushed to displays.
const (
	MsgSettings      = "settings"
	MsgAnnouncements = "announcements"
	MsgStream        = "stream"
	MsgHello         = "hello"
)

// Message tells a display which value changed. Displays re-fetch or reload.
// A hello carries the current version of every value in Versions, keyed by
// message type, so a reconnecting display can spot any change it missed.
type Message struct {
	Type      string            `json:"type"`
	Version   uint64            `json:"version"`
	Versions  map[string]uint64 `json:"versions,omitempty"`
	DisplayID string            `json:"displayId,omitempty"`
}

// Hub tracks connected displays and fans out change notifications.
type Hub struct {
	upgrader websocket.Upgrader
	metrics  *Metrics

	mu      sync.RWMutex
	clients map[*display]struct{}
	closed  bool
}

type display struct {
	id         string
	remoteAddr string
	conn       *websocket.Conn
	send       chan []byte
	closeOnce  sync.Once
}

// NewHub creates an empty hub.
func NewHub(metrics *Metrics) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		metrics: metrics,
		clients: make(map[*display]struct{}),
	}
}

// Count returns the number of connected displays.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends msg to every display. Slow displays miss the message
// rather than block the sender.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		logging.Error("Failed to encode display message", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for d := range h.clients {
		select {
		case d.send <- data:
		default:
			logging.Warn("Display send buffer full, dropping message",
				zap.String("display_id", d.id),
				zap.String("type", msg.Type),
			)
		}
	}
	if h.metrics != nil {
		h.metrics.broadcasts.WithLabelValues(msg.Type).Inc()
	}
}

// ServeWS upgrades the request and serves the display until it disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, hello Message) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	d := &display{
		id:         uuid.NewString(),
		remoteAddr: r.RemoteAddr,
		conn:       conn,
		send:       make(chan []byte, sendBuffer),
	}
	hello.Type = MsgHello
	hello.DisplayID = d.id
	greeting, _ := json.Marshal(hello)

	if !h.register(d, greeting) {
		conn.Close()
		return
	}

	go d.writePump()
	d.readPump()
	h.unregister(d)
}

func (h *Hub) register(d *display, greeting []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	d.send <- greeting
	h.clients[d] = struct{}{}
	if h.metrics != nil {
		h.metrics.displays.Set(float64(len(h.clients)))
	}
	logging.LogDisplayEvent(d.id, d.remoteAddr, "connected")
	return true
}

func (h *Hub) unregister(d *display) {
	h.mu.Lock()
	if _, ok := h.clients[d]; ok {
		delete(h.clients, d)
		d.close()
	}
	if h.metrics != nil {
		h.metrics.displays.Set(float64(len(h.clients)))
	}
	h.mu.Unlock()
	logging.LogDisplayEvent(d.id, d.remoteAddr, "disconnected")
}

// Close disconnects every display and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for d := range h.clients {
		d.close()
		delete(h.clients, d)
	}
	if h.metrics != nil {
		h.metrics.displays.Set(0)
	}
}

func (d *display) close() {
	d.closeOnce.Do(func() { close(d.send) })
}

// readPump drains incoming frames so pongs and close frames are processed.
func (d *display) readPump() {
	defer d.conn.Close()

	d.conn.SetReadLimit(maxMessageSize)
	_ = d.conn.SetReadDeadline(time.Now().Add(pongWait))
	d.conn.SetPongHandler(func(string) error {
		return d.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := d.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Debug("Display read error",
					zap.String("display_id", d.id),
					zap.Error(err),
				)
			}
			return
		}
	}
}

func (d *display) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		d.conn.Close()
	}()

	for {
		select {
		case data, ok := <-d.send:
			_ = d.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = d.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}
			if err := d.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = d.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := d.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
