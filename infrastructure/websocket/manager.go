package websocket

import (
	"encoding/json"
	"errors"
	"sync"

	"staff-directory/pkg/logger"
)

var ErrClientNotFound = errors.New("websocket client not found")

// Message is the envelope of every websocket message in both directions.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type outgoingMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Conn is the part of a websocket connection the manager writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Client wraps one connection. Writes are serialized because session
// callbacks arrive from several goroutines.
type Client struct {
	ID   string
	conn Conn
	mu   sync.Mutex
}

func NewClient(conn Conn) *Client {
	return &Client{conn: conn}
}

// Send writes one message to the client.
func (c *Client) Send(messageType string, data interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.WriteJSON(outgoingMessage{Type: messageType, Data: data}); err != nil {
		logger.WebSocketError("write_message", "WebSocket write error", err, map[string]interface{}{"session_id": c.ID, "type": messageType})
		return err
	}
	return nil
}

type ClientManager struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewClientManager() *ClientManager {
	return &ClientManager{clients: make(map[string]*Client)}
}

// Manager is the process-wide client registry.
var Manager = NewClientManager()

func (m *ClientManager) RegisterClient(id string, client *Client) {
	client.ID = id

	m.mu.Lock()
	m.clients[id] = client
	count := len(m.clients)
	m.mu.Unlock()

	logger.WebSocket("client_registered", "Client registered", map[string]interface{}{"session_id": id, "clients": count})
}

func (m *ClientManager) UnregisterClient(id string) {
	m.mu.Lock()
	_, ok := m.clients[id]
	delete(m.clients, id)
	count := len(m.clients)
	m.mu.Unlock()

	if ok {
		logger.WebSocket("client_unregistered", "Client unregistered", map[string]interface{}{"session_id": id, "clients": count})
	}
}

func (m *ClientManager) SendTo(id, messageType string, data interface{}) error {
	m.mu.RLock()
	client, ok := m.clients[id]
	m.mu.RUnlock()

	if !ok {
		return ErrClientNotFound
	}
	return client.Send(messageType, data)
}

// Broadcast sends a message to every registered client.
func (m *ClientManager) Broadcast(messageType string, data interface{}) {
	m.mu.RLock()
	clients := make([]*Client, 0, len(m.clients))
	for _, client := range m.clients {
		clients = append(clients, client)
	}
	m.mu.RUnlock()

	for _, client := range clients {
		client.Send(messageType, data)
	}
}

func (m *ClientManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// CloseAll closes every connection.
func (m *ClientManager) CloseAll() {
	m.mu.Lock()
	clients := m.clients
	m.clients = make(map[string]*Client)
	m.mu.Unlock()

	for _, client := range clients {
		client.conn.Close()
	}
}
