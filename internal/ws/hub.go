package ws

import (
	"encoding/json"
	"sync"
	"time"

	"campus-link/internal/domain/match"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type userMessage struct {
	userID  uuid.UUID
	payload []byte
}

// Hub routes outbound messages to the connections of a single user. A user
// may hold several connections at once; each gets its own copy.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]bool
	outbound   chan userMessage
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	stopOnce   sync.Once
	mutex      sync.RWMutex
	logger     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		outbound:   make(chan userMessage, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		stop:       make(chan struct{}),
		logger:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.stop:
			h.mutex.Lock()
			for _, conns := range h.clients {
				for client := range conns {
					close(client.send)
				}
			}
			h.clients = make(map[uuid.UUID]map[*Client]bool)
			h.mutex.Unlock()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			conns, ok := h.clients[client.userID]
			if !ok {
				conns = make(map[*Client]bool)
				h.clients[client.userID] = conns
			}
			conns[client] = true
			h.mutex.Unlock()
			h.logger.Debug("ws connected", zap.String("user_id", client.userID.String()))

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			if conns, ok := h.clients[client.userID]; ok && conns[client] {
				delete(conns, client)
				if len(conns) == 0 {
					delete(h.clients, client.userID)
				}
				close(client.send)
			}
			h.mutex.Unlock()
			h.logger.Debug("ws disconnected", zap.String("user_id", client.userID.String()))

		case msg := <-h.outbound:
			h.mutex.RLock()
			targets := make([]*Client, 0, len(h.clients[msg.userID]))
			for c := range h.clients[msg.userID] {
				targets = append(targets, c)
			}
			h.mutex.RUnlock()

			for _, client := range targets {
				select {
				case client.send <- msg.payload:
				default:
					h.unregister <- client
				}
			}
		}
	}
}

// Stop terminates the routing loop and closes the send channel of every
// connected client. Safe to call more than once.
func (h *Hub) Stop() {
	if h == nil {
		return
	}
	h.stopOnce.Do(func() { close(h.stop) })
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

// NotificationEvent is the wire shape of a pushed notification.
type NotificationEvent struct {
	Type      string    `json:"type"`
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	MatchID   uuid.UUID `json:"match_id,omitempty"`
	Timestamp string    `json:"timestamp"`
}

// Push satisfies the notification pusher used by the matching flow. Messages
// for users with no open connection are dropped silently; the stored
// notification is what they see on next load.
func (h *Hub) Push(userID uuid.UUID, n match.Notification) {
	if h == nil || userID == uuid.Nil {
		return
	}

	evt := NotificationEvent{
		Type:      n.Type,
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		MatchID:   n.MatchID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}

	select {
	case h.outbound <- userMessage{userID: userID, payload: b}:
	default:
		h.logger.Warn("ws push dropped", zap.String("user_id", userID.String()))
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	total := 0
	for _, conns := range h.clients {
		total += len(conns)
	}
	return total
}
