// Package ws streams a session's event log to websocket observers. The
// engine stays pull-based; the HTTP layer forwards each command's events
// here after the command returns, so observers see exactly the ordered log.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"blackjack-trainer/internal/game"
)

type client struct {
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

type Server struct {
	upgrader websocket.Upgrader

	mu       sync.Mutex
	watchers map[string]map[*client]bool
}

func NewServer() *Server {
	return &Server{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		watchers: map[string]map[*client]bool{},
	}
}

// HandleWS upgrades and registers an observer for ?session=<id>.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 16), sessionID: sessionID}

	s.mu.Lock()
	if s.watchers[sessionID] == nil {
		s.watchers[sessionID] = map[*client]bool{}
	}
	s.watchers[sessionID][c] = true
	s.mu.Unlock()

	go s.writeLoop(c)
	s.readLoop(c)
}

func (s *Server) readLoop(c *client) {
	defer func() {
		s.unregister(c)
		_ = c.conn.Close()
	}()
	for {
		// Observers only listen; reads just detect the close.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeLoop(c *client) {
	for msg := range c.send {
		_ = c.conn.WriteMessage(websocket.TextMessage, msg)
	}
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if set, ok := s.watchers[c.sessionID]; ok {
		if set[c] {
			delete(set, c)
			close(c.send)
		}
		if len(set) == 0 {
			delete(s.watchers, c.sessionID)
		}
	}
}

type eventBatch struct {
	Type      string       `json:"type"`
	SessionID string       `json:"session_id"`
	Events    []game.Event `json:"events"`
}

// Broadcast pushes one command's event log to every observer of a session.
// Slow observers are dropped rather than blocking the command path.
func (s *Server) Broadcast(sessionID string, events []game.Event) {
	if len(events) == 0 {
		return
	}
	payload, err := json.Marshal(eventBatch{Type: "events", SessionID: sessionID, Events: events})
	if err != nil {
		log.Error().Err(err).Msg("marshal event batch failed")
		return
	}

	s.mu.Lock()
	var stale []*client
	for c := range s.watchers[sessionID] {
		select {
		case c.send <- payload:
		default:
			stale = append(stale, c)
		}
	}
	for _, c := range stale {
		delete(s.watchers[sessionID], c)
		close(c.send)
	}
	s.mu.Unlock()

	for _, c := range stale {
		_ = c.conn.Close()
	}
}
