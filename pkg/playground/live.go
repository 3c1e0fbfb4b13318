package playground

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/syringe/internal/errors"
	"github.com/vango-dev/syringe/pkg/fixture"
)

// MessageType identifies a live message.
type MessageType string

const (
	MessageResult MessageType = "result"
	MessageError  MessageType = "error"
)

// LiveRequest is sent by a client over /live.
type LiveRequest struct {
	// Fixture is a fixture document in YAML or JSON.
	Fixture string   `json:"fixture"`
	Emit    []string `json:"emit,omitempty"`
}

// LiveMessage is sent to clients over /live.
type LiveMessage struct {
	Type   MessageType          `json:"type"`
	Result *Result              `json:"result,omitempty"`
	Error  *errors.SyringeError `json:"error,omitempty"`
}

// Hub tracks live connections. Every result produced by the server is
// broadcast to all of them.
type Hub struct {
	clients  map[*websocket.Conn]*sync.Mutex
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHub creates a Hub accepting the given origins.
func NewHub(allowedOrigins []string, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Hub{
		clients: make(map[*websocket.Conn]*sync.Mutex),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
	}
	if len(allowedOrigins) > 0 {
		h.upgrader.CheckOrigin = originChecker(allowedOrigins)
	}
	return h
}

func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		return set["*"] || set[r.Header.Get("Origin")]
	}
}

// handleLive upgrades the connection and answers each LiveRequest with a
// LiveMessage. Results are also broadcast to the other clients.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("playground: live upgrade failed", "error", errors.New("E301").Wrap(err))
		return
	}
	s.hub.add(conn)
	defer s.hub.remove(conn)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("playground: live connection closed", "error", err)
			}
			return
		}

		var req LiveRequest
		if err := json.Unmarshal(data, &req); err != nil {
			s.hub.send(conn, errorMessage(errors.New("E300").WithDetail("live messages are JSON objects with a fixture field").Wrap(err)))
			continue
		}
		doc, err := fixture.Parse([]byte(req.Fixture), "live")
		if err != nil {
			s.hub.send(conn, errorMessage(err))
			continue
		}
		result, err := s.config.Pipeline.Run(r.Context(), doc, req.Emit...)
		if err != nil {
			s.hub.send(conn, errorMessage(err))
			continue
		}
		s.hub.Broadcast(LiveMessage{Type: MessageResult, Result: result})
	}
}

func errorMessage(err error) LiveMessage {
	return LiveMessage{Type: MessageError, Error: errors.FromError(err, "E302")}
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = &sync.Mutex{}
	h.mu.Unlock()
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()
	if ok {
		conn.Close()
	}
}

// send writes msg to one client. Writes to a connection are serialized.
func (h *Hub) send(conn *websocket.Conn, msg LiveMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.RLock()
	wmu, ok := h.clients[conn]
	h.mu.RUnlock()
	if !ok {
		return
	}

	wmu.Lock()
	err = conn.WriteMessage(websocket.TextMessage, data)
	wmu.Unlock()
	if err != nil {
		h.remove(conn)
	}
}

// Broadcast sends msg to all connected clients.
func (h *Hub) Broadcast(msg LiveMessage) {
	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		h.send(client, msg)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}
