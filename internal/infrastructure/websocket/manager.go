package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"reviewdesk/pkg/logger"
)

// Client is one connected console tab.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

// Manager fans console state changes out to every connected tab. It is
// push only; the browser shell drives mutations through the HTTP API.
type Manager struct {
	clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	broadcast  chan []byte
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
	}
}

// Start runs the manager's main loop in a goroutine.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client.ID] = client
				m.mutex.Unlock()
				logger.Info("Console client connected: %s", client.ID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if _, ok := m.clients[client.ID]; ok {
					delete(m.clients, client.ID)
					close(client.Send)
				}
				m.mutex.Unlock()
				logger.Info("Console client disconnected: %s", client.ID)

			case frame := <-m.broadcast:
				m.mutex.Lock()
				for id, client := range m.clients {
					select {
					case client.Send <- frame:
					default:
						close(client.Send)
						delete(m.clients, id)
					}
				}
				m.mutex.Unlock()

			case <-ctx.Done():
				return
			}
		}
	}()
}

// Broadcast pushes an {event, data} frame to every connected tab.
// Marshal failures are logged and dropped; a notification is never
// allowed to fail a state mutation.
func (m *Manager) Broadcast(event string, data interface{}) {
	frame, err := json.Marshal(map[string]interface{}{
		"event": event,
		"data":  data,
	})
	if err != nil {
		logger.Error("Failed to encode broadcast %q: %v", event, err)
		return
	}

	select {
	case m.broadcast <- frame:
	default:
		logger.Warn("Broadcast buffer full, dropping %q", event)
	}
}

// ReadPump drains the connection so pings and close frames are
// processed; inbound payloads are ignored.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("Console client read error: %v", err)
			}
			break
		}
	}
}

func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		frame, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			logger.Error("Console client write error: %v", err)
			return
		}
	}
}
