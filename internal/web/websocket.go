package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/justinabrahms/checkers/internal/session"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Upgrades require the SameSite=Lax session cookie.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans game updates out to every websocket watching the same session,
// so several tabs of one browser stay in sync.
type Hub struct {
	// Registered clients by session ID
	sessions map[string]map[*Client]bool

	broadcast  chan Update
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex
}

// Client is one websocket connection.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	pongs     chan struct{}
	sessionID string
}

// Update is the message pushed to clients.
type Update struct {
	Type    string      `json:"type"` // "state", "pong"
	Session string      `json:"session,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan Update, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, clients := range h.sessions {
				for client := range clients {
					close(client.send)
				}
				delete(h.sessions, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.sessions[client.sessionID] == nil {
				h.sessions[client.sessionID] = make(map[*Client]bool)
			}
			h.sessions[client.sessionID][client] = true
			h.mu.Unlock()

			log.Info().Str("session", client.sessionID).Msg("Client connected")

		case client := <-h.unregister:
			h.remove(client)
			log.Info().Str("session", client.sessionID).Msg("Client disconnected")

		case update := <-h.broadcast:
			message, err := json.Marshal(update)
			if err != nil {
				log.Error().Err(err).Msg("Failed to marshal game update")
				continue
			}

			h.mu.RLock()
			var slow []*Client
			for client := range h.sessions[update.Session] {
				select {
				case client.send <- message:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()

			for _, client := range slow {
				log.Warn().Str("session", client.sessionID).Msg("Dropping slow websocket client")
				h.remove(client)
			}
		}
	}
}

// remove drops client and closes its send channel. It is only called from
// Run, so a client is never closed twice.
func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.sessions[client.sessionID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.sessions, client.sessionID)
	}
}

// Publish queues the latest game view of a session for its watchers.
func (h *Hub) Publish(sessionID string, view GameView) {
	update := Update{Type: "state", Session: sessionID, Data: view}
	select {
	case h.broadcast <- update:
	default:
		log.Warn().Str("session", sessionID).Msg("Broadcast channel full, dropping update")
	}
}

// ClientCount returns the number of connections watching a session.
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// WebSocketHandler upgrades a request that carries a valid session and
// streams that session's updates. The current state is sent on connect.
func (s *Service) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	client := &Client{
		hub:       s.hub,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		pongs:     make(chan struct{}, 1),
		sessionID: id,
	}
	select {
	case s.hub.register <- client:
	case <-s.hub.done:
		conn.Close()
		return
	}

	if err := s.sessions.Replay(r.Context(), id, s.publish); err != nil && !errors.Is(err, session.ErrNotFound) {
		log.Error().Err(err).Str("session", id).Msg("Failed to load game for new watcher")
	}

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("session", c.sessionID).Msg("WebSocket error")
			}
			return
		}

		var msg Update
		if err := json.Unmarshal(message, &msg); err != nil || msg.Type != "ping" {
			continue
		}
		select {
		case c.pongs <- struct{}{}:
		default:
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-c.pongs:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(Update{Type: "pong"}); err != nil {
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
