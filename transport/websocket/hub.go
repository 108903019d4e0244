package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wricardo/mcp-training/pathfinder/grid/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Pending broadcasts before new ones are dropped.
	broadcastBuffer = 64
)

// Events sent to clients
const (
	EventConnected   = "connected"
	EventBoardUpdate = "board_update"
	EventPathResult  = "path_result"
	EventDeleted     = "session_deleted"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message represents a WebSocket message
type Message struct {
	SessionID string              `json:"session_id"`
	ClientID  string              `json:"client_id,omitempty"`
	Event     string              `json:"event"`
	Board     *service.BoardState `json:"board,omitempty"`
	Data      any                 `json:"data,omitempty"`
}

// Client represents a WebSocket client watching one session
type Client struct {
	id        string
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// Hub maintains the set of active clients and broadcasts board updates to
// every client of a session
type Hub struct {
	// Registered clients by session ID
	sessions map[string]map[*Client]bool
	mu       sync.RWMutex

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	logger *slog.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.With("component", "websocket_hub"),
	}
}

// Run starts the hub's event loop and returns when ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// ServeWS upgrades the request and attaches the connection to sessionID
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "session_id", sessionID, "error", err)
		return
	}

	client := &Client{
		id:        uuid.NewString(),
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
	}

	if hello, err := json.Marshal(&Message{SessionID: sessionID, ClientID: client.id, Event: EventConnected}); err == nil {
		client.send <- hello
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// BroadcastBoard sends a board update to all clients in a session
func (h *Hub) BroadcastBoard(sessionID, event string, board *service.BoardState) {
	h.enqueue(&Message{SessionID: sessionID, Event: event, Board: board})
}

// BroadcastEvent sends a custom event to all clients in a session
func (h *Hub) BroadcastEvent(sessionID, event string, data any) {
	h.enqueue(&Message{SessionID: sessionID, Event: event, Data: data})
}

// ClientCount returns the number of clients connected to sessionID
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// enqueue never blocks the caller; updates are dropped when the hub lags
func (h *Hub) enqueue(message *Message) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("broadcast queue full, dropping message",
			"session_id", message.SessionID, "event", message.Event)
	}
}

// registerClient adds a client to a session
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	h.logger.Debug("client registered",
		"session_id", client.sessionID,
		"client_id", client.id,
		"clients", len(h.sessions[client.sessionID]))
}

// unregisterClient removes a client from a session and closes its channel
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.sessions[client.sessionID]
	if !ok || !clients[client] {
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.sessions, client.sessionID)
	}

	h.logger.Debug("client unregistered",
		"session_id", client.sessionID,
		"client_id", client.id,
		"clients", len(clients))
}

// broadcastMessage sends a message to all clients in a session. Clients
// whose send buffer is full are dropped.
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal broadcast message", "event", message.Event, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.sessions[message.SessionID] {
		select {
		case client.send <- data:
		default:
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.sessions {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// readPump drains the connection so control frames are processed. Client
// messages are ignored; edits go through the REST API.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
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
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read error", "client_id", c.id, "error", err)
			}
			return
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
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
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
