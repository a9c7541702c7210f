package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
)

// Event is a catalog or export lifecycle notification pushed to UI clients.
type Event struct {
	Type   string `json:"type"`             // "catalog" or "export"
	Entity string `json:"entity,omitempty"` // catalog events: manufacturer, product, malware, signature
	Action string `json:"action,omitempty"` // catalog events: created, updated, deleted
	ID     string `json:"id,omitempty"`     // business id of the affected record
	Kind   string `json:"kind,omitempty"`   // export events: workbook, statistical, detailed
	Status string `json:"status,omitempty"` // export events: started, completed, failed
	Path   string `json:"path,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Hub broadcasts events to every connected WebSocket client.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]struct{})}
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = struct{}{}
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

func (h *Hub) Broadcast(ev Event) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	for _, conn := range conns {
		if err := conn.Write(context.Background(), websocket.MessageText, data); err != nil {
			slog.Debug("ws write error", "error", err)
			h.Unregister(conn)
			conn.Close(websocket.StatusNormalClosure, "")
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("ws accept error", "error", err)
		return
	}
	defer conn.CloseNow()

	s.hub.Register(conn)
	defer s.hub.Unregister(conn)

	// Keep connection alive until the client goes away.
	for {
		if _, _, err := conn.Read(r.Context()); err != nil {
			return
		}
	}
}
