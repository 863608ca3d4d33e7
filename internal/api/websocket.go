package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"rankcore/internal/leaderboard"

	"github.com/gorilla/websocket"
)

const (
	// MaxWSConnectionsTotal is the maximum number of WebSocket connections allowed
	MaxWSConnectionsTotal = 500

	// MaxWSConnectionsPerIP is the maximum WebSocket connections per IP
	MaxWSConnectionsPerIP = 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		if IsAllowedOrigin(origin) {
			return true
		}

		log.Printf("⚠️ WebSocket connection rejected from origin: %s", origin)
		RecordConnectionRejected("origin")
		return false
	},
}

// wsClient tracks a WebSocket connection with its source IP
type wsClient struct {
	conn *websocket.Conn
	ip   string
}

// WebSocketHub fans leaderboard change events out to connected clients
// with DoS protection. It is wired to leaderboard.Core.Listener so every
// UpdateScore call that changes a customer's score is broadcast to
// subscribers with no polling.
type WebSocketHub struct {
	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	mu         sync.RWMutex

	wsLimiter *WebSocketRateLimiter
}

// NewWebSocketHub creates a new hub with connection limiting
func NewWebSocketHub() *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		wsLimiter:  NewWebSocketRateLimiter(MaxWSConnectionsPerIP),
	}
}

// Run starts the hub's event loop. Call it in its own goroutine.
func (h *WebSocketHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			h.mu.Unlock()

			count := len(h.clients)
			log.Printf("📱 Client connected from %s (%d total)", client.ip, count)
			UpdateWSConnections(count)

		case conn := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[conn]; ok {
				h.wsLimiter.Release(client.ip)
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()

			count := len(h.clients)
			log.Printf("📱 Client disconnected (%d remaining)", count)
			UpdateWSConnections(count)

		case message := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.clients {
				err := conn.WriteMessage(websocket.TextMessage, message)
				if err != nil {
					conn.Close()
					h.mu.RUnlock()
					h.mu.Lock()
					if client, ok := h.clients[conn]; ok {
						h.wsLimiter.Release(client.ip)
						delete(h.clients, conn)
					}
					h.mu.Unlock()
					h.mu.RLock()
				}
			}
			h.mu.RUnlock()
			IncrementWSMessages()
		}
	}
}

// Broadcast sends a message to all connected clients
func (h *WebSocketHub) Broadcast(event string, data interface{}) {
	msg := map[string]interface{}{
		"event": event,
		"data":  data,
	}

	jsonBytes, err := json.Marshal(msg)
	if err != nil {
		return
	}

	select {
	case h.broadcast <- jsonBytes:
	default:
		// Channel full, skip (backpressure)
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// rankChangePayload is the wire shape of a leaderboard.ChangeEvent.
type rankChangePayload struct {
	CustomerID int64  `json:"customerId"`
	Score      string `json:"score"`
	Rank       int    `json:"rank,omitempty"`
	Removed    bool   `json:"removed,omitempty"`
}

// OnLeaderboardChange is a leaderboard.ChangeEvent listener suitable for
// assignment to Core.Listener. It skips entirely if nobody is connected,
// so an idle leaderboard costs nothing beyond the client count check.
func (h *WebSocketHub) OnLeaderboardChange(evt leaderboard.ChangeEvent) {
	if h.ClientCount() == 0 {
		return
	}
	h.Broadcast("rank:change", rankChangePayload{
		CustomerID: evt.CustomerID,
		Score:      evt.Score.String(),
		Rank:       evt.Rank,
		Removed:    evt.Removed,
	})
}

// HandleWebSocket handles incoming WebSocket connections with DoS protection
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	h.mu.RLock()
	totalConnections := len(h.clients)
	h.mu.RUnlock()

	if totalConnections >= MaxWSConnectionsTotal {
		log.Printf("⚠️ WebSocket connection rejected: total limit reached (%d)", totalConnections)
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	if !h.wsLimiter.Allow(ip) {
		log.Printf("⚠️ WebSocket connection rejected from %s: per-IP limit reached", ip)
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		h.wsLimiter.Release(ip)
		return
	}

	client := &wsClient{conn: conn, ip: ip}
	h.register <- client

	go func() {
		defer func() {
			h.unregister <- conn
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
			// Subscribers are read-only; any inbound frame just keeps the
			// connection alive, nothing to act on.
		}
	}()
}
