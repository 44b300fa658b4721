package sse

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Event is one server-sent event. Data is encoded as JSON.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// FormatSSE renders e in text/event-stream framing. It fails when Data
// cannot be encoded.
func (e Event) FormatSSE() (string, error) {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s event: %w", e.Type, err)
	}
	return "event: " + e.Type + "\ndata: " + string(data) + "\n\n", nil
}

// Client is one open stream subscribed to a resource.
type Client struct {
	ID       string
	Channel  chan Event
	Resource string
}

// NewClient returns an unregistered client. A non-positive bufferSize means 10.
func NewClient(resource string, bufferSize int) *Client {
	if bufferSize <= 0 {
		bufferSize = 10
	}
	return &Client{
		ID:       uuid.NewString(),
		Channel:  make(chan Event, bufferSize),
		Resource: resource,
	}
}

// Hub fans events out to the clients of each resource.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

// NewHub returns a hub with no clients.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*Client]struct{})}
}

// Register subscribes client to its resource.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.Resource] == nil {
		h.clients[client.Resource] = make(map[*Client]struct{})
	}
	h.clients[client.Resource][client] = struct{}{}
}

// Unregister removes client and closes its channel. It is a no-op for
// clients that are not registered.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.Resource]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	close(client.Channel)
	if len(clients) == 0 {
		delete(h.clients, client.Resource)
	}
}

// Broadcast never blocks: a client whose buffer is full misses the event.
func (h *Hub) Broadcast(resource string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[resource] {
		select {
		case client.Channel <- event:
		default:
		}
	}
}

// ClientCount returns the number of clients subscribed to resource.
func (h *Hub) ClientCount(resource string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[resource])
}
