package realtime

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// EventTranslationUpdate is broadcast after any successful mutation.
const EventTranslationUpdate = "translation_update"

type Event struct {
	Type    string      `json:"type"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Conn is the subset of a websocket connection the hub writes to. The
// contrib websocket connection satisfies it.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

const textMessage = 1

// Hub fans events out to every connected client, fire-and-forget: no
// acknowledgment, no ordering guarantee, no backlog for clients that connect
// after an event. Process-local only.
//
// The websocket connection allows one concurrent writer, so every write goes
// through a per-client mutex owned by the hub; read-loop acks must use Send
// to take the same lock.
type Hub struct {
	mu      sync.RWMutex
	clients map[Conn]*sync.Mutex
	logger  *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients: make(map[Conn]*sync.Mutex),
		logger:  logger,
	}
}

func (h *Hub) Register(c Conn) {
	h.mu.Lock()
	h.clients[c] = &sync.Mutex{}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.WithField("clients", count).Debug("WebSocket client connected")
}

func (h *Hub) Unregister(c Conn) {
	h.mu.Lock()
	delete(h.clients, c)
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.WithField("clients", count).Debug("WebSocket client disconnected")
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Send writes one event to a single registered client. Events to clients the
// hub no longer tracks are dropped.
func (h *Hub) Send(c Conn, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.RLock()
	wl, ok := h.clients[c]
	h.mu.RUnlock()
	if !ok {
		return nil
	}

	wl.Lock()
	defer wl.Unlock()
	return c.WriteMessage(textMessage, payload)
}

// Broadcast serializes the event once and writes it to every client.
// Clients whose write fails are dropped silently; a disconnected client
// permanently misses the event.
func (h *Hub) Broadcast(eventType string, data interface{}) {
	payload, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal broadcast event")
		return
	}

	h.mu.RLock()
	conns := make([]Conn, 0, len(h.clients))
	locks := make([]*sync.Mutex, 0, len(h.clients))
	for c, wl := range h.clients {
		conns = append(conns, c)
		locks = append(locks, wl)
	}
	h.mu.RUnlock()

	for i, c := range conns {
		locks[i].Lock()
		err := c.WriteMessage(textMessage, payload)
		locks[i].Unlock()
		if err != nil {
			h.Unregister(c)
			_ = c.Close()
		}
	}
}
