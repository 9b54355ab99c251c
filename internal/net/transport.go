package net

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// HubPath is where hosts connect.
const HubPath = "/canvas"

// Message is the envelope for everything exchanged with a host.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type peer struct {
	conn *websocket.Conn
	mu   sync.Mutex // one writer at a time per connection
}

func (p *peer) write(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub accepts host connections over websocket, hands their messages to
// OnMessage and broadcasts outbound values to all of them.
type Hub struct {
	upgrader websocket.Upgrader
	peers    map[*websocket.Conn]*peer
	mu       sync.RWMutex

	// OnMessage is called from the connection's read goroutine.
	OnMessage func(msgType string, payload json.RawMessage)
	// OnConnect is called after a host connects, from its goroutine.
	OnConnect func()
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		peers:    make(map[*websocket.Conn]*peer),
	}
}

// ServeHTTP upgrades the request and serves the connection until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[HUB] upgrade from %s failed: %v", r.RemoteAddr, err)
		return
	}
	h.add(conn)
	defer h.remove(conn)

	if h.OnConnect != nil {
		h.OnConnect()
	}
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			log.Printf("[HUB] host %s disconnected: %v", conn.RemoteAddr(), err)
			return
		}
		log.Printf("[HUB] received '%s' from %s", msg.Type, conn.RemoteAddr())
		if h.OnMessage != nil {
			h.OnMessage(msg.Type, msg.Payload)
		}
	}
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.peers[conn] = &peer{conn: conn}
	log.Printf("[HUB] host connected from %s", conn.RemoteAddr())
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.peers, conn)
	h.mu.Unlock()
	conn.Close()
}

// Count returns the number of connected hosts.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Broadcast sends a message to every connected host. It returns the first
// write error; the remaining hosts are still tried.
func (h *Hub) Broadcast(msgType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", msgType, err)
	}
	data, err := json.Marshal(Message{Type: msgType, Payload: raw})
	if err != nil {
		return fmt.Errorf("encoding %s message: %w", msgType, err)
	}

	h.mu.RLock()
	peers := make([]*peer, 0, len(h.peers))
	for _, p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.RUnlock()

	var first error
	for _, p := range peers {
		if err := p.write(data); err != nil {
			log.Printf("[HUB] error sending to %s: %v", p.conn.RemoteAddr(), err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// ListenAndServe runs the hub on port until the server fails.
func (h *Hub) ListenAndServe(port int) error {
	mux := http.NewServeMux()
	mux.Handle(HubPath, h)
	addr := fmt.Sprintf(":%d", port)
	log.Printf("[HUB] listening on %s%s", addr, HubPath)
	return http.ListenAndServe(addr, mux)
}
