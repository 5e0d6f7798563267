// Package stream fans price snapshots and news events out to WebSocket
// subscribers. Delivery is best effort, at most once per tick: a full
// buffer drops the message and a dead connection is evicted. Late joiners
// get the current snapshot on connect, never a backlog.
package stream

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tradestack/market-sim/internal/metrics"
	"github.com/tradestack/market-sim/internal/model"
)

// Message types pushed to subscribers.
const (
	TypeSnapshot = "stock_update"
	TypeNews     = "news"
)

// Message is the envelope sent to WebSocket clients.
type Message struct {
	Type        string             `json:"type"`
	Instruments []model.Instrument `json:"instruments,omitempty"`
	News        *model.NewsEvent   `json:"news,omitempty"`
}

// SnapshotFunc supplies the current catalog snapshot for new connections.
type SnapshotFunc func() []model.Instrument

// Hub manages subscriber connections and fan-out.
type Hub struct {
	snapshot SnapshotFunc

	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.RWMutex

	newsMu     sync.Mutex
	recentNews []model.NewsEvent
	newsWindow int
}

// NewHub creates a hub. newsWindow bounds the recent-news buffer.
func NewHub(snapshot SnapshotFunc, newsWindow int) *Hub {
	if newsWindow <= 0 {
		newsWindow = 20
	}
	return &Hub{
		snapshot:   snapshot,
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		newsWindow: newsWindow,
	}
}

// Run starts the hub's event loop. Must be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			total := len(h.clients)
			h.mu.Unlock()
			metrics.WebSocketClients.Set(float64(total))
			slog.Info("subscriber connected", "total", total)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			total := len(h.clients)
			h.mu.Unlock()
			metrics.WebSocketClients.Set(float64(total))

		case msg := <-h.broadcast:
			// Write lock: evicting a dead connection mutates the map
			// while ping goroutines read it concurrently.
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastSnapshot pushes the full instrument snapshot to all subscribers.
func (h *Hub) BroadcastSnapshot(instruments []model.Instrument) {
	h.send(Message{Type: TypeSnapshot, Instruments: instruments})
}

// BroadcastNews pushes one event to all subscribers and records it in the
// recent-window buffer.
func (h *Hub) BroadcastNews(event model.NewsEvent) {
	h.newsMu.Lock()
	h.recentNews = append(h.recentNews, event)
	if len(h.recentNews) > h.newsWindow {
		h.recentNews = h.recentNews[len(h.recentNews)-h.newsWindow:]
	}
	h.newsMu.Unlock()

	h.send(Message{Type: TypeNews, News: &event})
}

// RecentNews returns the buffered events, most recent last.
func (h *Hub) RecentNews() []model.NewsEvent {
	h.newsMu.Lock()
	defer h.newsMu.Unlock()
	out := make([]model.NewsEvent, len(h.recentNews))
	copy(out, h.recentNews)
	return out
}

func (h *Hub) send(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- data:
	default:
		// Drop if buffer full to avoid blocking the tick loop.
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true // Allow all origins during development.
	},
}

// HandleWS handles WebSocket upgrade requests at GET /api/v1/ws.
// The current snapshot is written immediately after the upgrade so a
// reconnecting client does not wait for the next tick.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("ws upgrade failed", "err", err)
		return
	}

	if h.snapshot != nil {
		if data, err := json.Marshal(Message{Type: TypeSnapshot, Instruments: h.snapshot()}); err == nil {
			conn.WriteMessage(websocket.TextMessage, data)
		}
	}

	h.register <- conn

	// Read pump: keep connection alive and detect disconnects.
	go func() {
		defer func() { h.unregister <- conn }()
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()

	// Ping ticker to keep connection alive through proxies.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			h.mu.RLock()
			_, ok := h.clients[conn]
			h.mu.RUnlock()
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}()
}
