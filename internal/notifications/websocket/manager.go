package websocket

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"launchpad/client-portal/client-portal-backend/internal/onboarding"
)

// Manager handles WebSocket connections and pushes onboarding progress
// events to subscribed clients. It implements onboarding.ProgressNotifier.
type Manager struct {
	connections map[string]*Connection
	mu          sync.RWMutex
	hub         *Hub
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

// Connection represents a WebSocket client connection. A connection with a
// zero SessionID receives events for every session.
type Connection struct {
	ID           string
	SessionID    uuid.UUID
	Conn         *websocket.Conn
	Send         chan onboarding.ProgressEvent
	LastActivity time.Time
	mu           sync.Mutex
}

// Hub routes progress events to registered connections
type Hub struct {
	connections map[*Connection]bool
	broadcast   chan onboarding.ProgressEvent
	register    chan *Connection
	unregister  chan *Connection
	stop        chan struct{}
}

// NewManager creates a new WebSocket manager and starts its hub
func NewManager(logger *zap.Logger) *Manager {
	hub := &Hub{
		connections: make(map[*Connection]bool),
		broadcast:   make(chan onboarding.ProgressEvent, 256),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		stop:        make(chan struct{}),
	}

	go hub.run()

	return &Manager{
		connections: make(map[string]*Connection),
		hub:         hub,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleConnection upgrades the request and registers the client. The
// optional sessionId query parameter scopes the subscription to one
// session.
func (m *Manager) HandleConnection(w http.ResponseWriter, r *http.Request) (*Connection, error) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upgrade connection: %w", err)
	}

	var sessionID uuid.UUID
	if raw := r.URL.Query().Get("sessionId"); raw != "" {
		sessionID, err = uuid.Parse(raw)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("invalid sessionId: %w", err)
		}
	}

	connection := &Connection{
		ID:           uuid.New().String(),
		SessionID:    sessionID,
		Conn:         conn,
		Send:         make(chan onboarding.ProgressEvent, 256),
		LastActivity: time.Now(),
	}

	m.hub.register <- connection

	m.mu.Lock()
	m.connections[connection.ID] = connection
	m.mu.Unlock()

	go m.readPump(connection)
	go m.writePump(connection)

	return connection, nil
}

// NotifyProgress queues a progress event for delivery. Events are dropped
// when the hub is saturated rather than blocking the caller.
func (m *Manager) NotifyProgress(event onboarding.ProgressEvent) {
	select {
	case m.hub.broadcast <- event:
	default:
		m.logger.Warn("Progress broadcast channel full, dropping event",
			zap.String("session_id", event.SessionID.String()),
			zap.String("type", event.Type))
	}
}

// readPump drains client frames so ping/pong keepalive works; clients only
// listen on this socket
func (m *Manager) readPump(conn *Connection) {
	defer func() {
		m.hub.unregister <- conn
		m.mu.Lock()
		delete(m.connections, conn.ID)
		m.mu.Unlock()
		conn.Conn.Close()
	}()

	conn.Conn.SetReadLimit(512)
	conn.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.Conn.SetPongHandler(func(string) error {
		conn.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := conn.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.logger.Debug("WebSocket read error", zap.Error(err))
			}
			break
		}

		conn.mu.Lock()
		conn.LastActivity = time.Now()
		conn.mu.Unlock()
	}
}

// writePump pumps events from the hub to the WebSocket connection
func (m *Manager) writePump(conn *Connection) {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		conn.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-conn.Send:
			conn.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				conn.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.Conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			conn.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// run routes events to connections subscribed to the event's session
func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.connections[conn] = true

		case conn := <-h.unregister:
			if _, ok := h.connections[conn]; ok {
				delete(h.connections, conn)
				close(conn.Send)
			}

		case event := <-h.broadcast:
			for conn := range h.connections {
				if conn.SessionID != uuid.Nil && conn.SessionID != event.SessionID {
					continue
				}
				select {
				case conn.Send <- event:
				default:
					close(conn.Send)
					delete(h.connections, conn)
				}
			}

		case <-h.stop:
			for conn := range h.connections {
				close(conn.Send)
				delete(h.connections, conn)
			}
			return
		}
	}
}

// ConnectionCount returns the number of active connections
func (m *Manager) ConnectionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

// SessionConnectionCount returns the number of connections watching a
// specific session
func (m *Manager) SessionConnectionCount(sessionID uuid.UUID) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, conn := range m.connections {
		if conn.SessionID == sessionID {
			count++
		}
	}
	return count
}

// Close shuts down the hub and all connections
func (m *Manager) Close() {
	close(m.hub.stop)

	m.mu.Lock()
	for _, conn := range m.connections {
		conn.Conn.Close()
	}
	m.connections = make(map[string]*Connection)
	m.mu.Unlock()
}
