// Package inspect streams motion graph diagnostics to browser tools over a
// websocket.
package inspect

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

type HubConfig struct {
	Logger *log.Logger
	// Info is sent to every subscriber right after it connects.
	Info map[string]any
}

// Hub fans encoded diagnostic events out to every connected inspector.
// It implements sinks.Broadcaster.
type Hub struct {
	logger   *log.Logger
	upgrader websocket.Upgrader
	info     map[string]any

	mu          sync.Mutex
	subscribers map[string]*subscriber
	nextID      atomic.Uint64
	sent        atomic.Uint64
}

func NewHub(cfg HubConfig) *Hub {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		info:        cfg.Info,
		subscribers: make(map[string]*subscriber),
	}
}

type helloMessage struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	ServerTime int64          `json:"serverTime"`
	Info       map[string]any `json:"info,omitempty"`
}

// Handle upgrades the request and keeps the subscriber registered until
// the client goes away. Inbound messages are ignored.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("inspect: upgrade failed: %v", err)
		return
	}

	id := fmt.Sprintf("inspector-%d", h.nextID.Add(1))
	sub := &subscriber{conn: conn}

	hello, err := json.Marshal(helloMessage{Type: "hello", ID: id, ServerTime: time.Now().UnixMilli(), Info: h.info})
	if err != nil {
		h.logger.Printf("inspect: marshal hello: %v", err)
		conn.Close()
		return
	}
	if err := sub.write(hello); err != nil {
		conn.Close()
		return
	}

	h.mu.Lock()
	h.subscribers[id] = sub
	h.mu.Unlock()

	defer h.disconnect(id)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) disconnect(id string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	delete(h.subscribers, id)
	h.mu.Unlock()
	if ok {
		sub.conn.Close()
	}
}

// Broadcast writes data to every subscriber and drops the ones that fail.
func (h *Hub) Broadcast(data []byte) {
	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		if err := sub.write(data); err != nil {
			h.logger.Printf("inspect: send to %s failed: %v", id, err)
			h.disconnect(id)
			continue
		}
		h.sent.Add(1)
	}
}

// Subscribers is the number of connected inspectors.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Sent counts messages delivered across all subscribers.
func (h *Hub) Sent() uint64 { return h.sent.Load() }

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	ids := make([]string, 0, len(h.subscribers))
	for id := range h.subscribers {
		ids = append(ids, id)
	}
	h.mu.Unlock()
	for _, id := range ids {
		sub := h.lookup(id)
		if sub == nil {
			continue
		}
		sub.mu.Lock()
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		sub.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown"))
		sub.mu.Unlock()
		h.disconnect(id)
	}
}

func (h *Hub) lookup(id string) *subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.subscribers[id]
}
