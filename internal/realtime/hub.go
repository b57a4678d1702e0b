// internal/realtime/hub.go
package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sendBuffer = 32

// Client is one open notification socket. A user may hold several.
type Client struct {
	ID     string
	UserID uuid.UUID
	Conn   *WebSocketConn
	Send   chan []byte
}

func NewClient(userID uuid.UUID, conn *WebSocketConn) *Client {
	return &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
	}
}

// request is acked by Run once the client map reflects it.
type request struct {
	client *Client
	ack    chan struct{}
}

func (h *Hub) do(ch chan request, client *Client) bool {
	req := request{client: client, ack: make(chan struct{})}
	select {
	case ch <- req:
	case <-h.done:
		return false
	}
	<-req.ack
	return true
}

// Hub tracks the sockets connected to this instance, keyed by user.
type Hub struct {
	log        *zap.Logger
	users      map[uuid.UUID]map[string]*Client
	register   chan request
	unregister chan request
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log:        log,
		users:      make(map[uuid.UUID]map[string]*Client),
		register:   make(chan request),
		unregister: make(chan request),
		done:       make(chan struct{}),
	}
}

// RegisterClient reports false once the hub has stopped.
func (h *Hub) RegisterClient(client *Client) bool {
	return h.do(h.register, client)
}

func (h *Hub) UnregisterClient(client *Client) {
	h.do(h.unregister, client)
}

// Online returns the number of sockets open for userID.
func (h *Hub) Online(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// SendToUser marshals data and queues it on every socket of userID.
func (h *Hub) SendToUser(userID uuid.UUID, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		h.log.Error("marshal realtime message", zap.Error(err))
		return
	}
	h.SendRaw(userID, payload)
}

// SendRaw queues an already encoded message. Slow sockets drop it rather than block.
func (h *Hub) SendRaw(userID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.users[userID] {
		select {
		case client.Send <- payload:
		default:
			h.log.Warn("realtime send buffer full, dropping",
				zap.String("client_id", client.ID),
				zap.Stringer("user_id", userID),
			)
		}
	}
}

// Run serves register/unregister until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case req := <-h.register:
			client := req.client
			h.mu.Lock()
			set, ok := h.users[client.UserID]
			if !ok {
				set = make(map[string]*Client)
				h.users[client.UserID] = set
			}
			set[client.ID] = client
			h.mu.Unlock()
			close(req.ack)
			h.log.Debug("realtime client registered",
				zap.String("client_id", client.ID),
				zap.Stringer("user_id", client.UserID),
			)

		case req := <-h.unregister:
			client := req.client
			h.mu.Lock()
			if set, ok := h.users[client.UserID]; ok {
				if old, ok := set[client.ID]; ok {
					delete(set, client.ID)
					close(old.Send)
				}
				if len(set) == 0 {
					delete(h.users, client.UserID)
				}
			}
			h.mu.Unlock()
			close(req.ack)
			h.log.Debug("realtime client unregistered", zap.String("client_id", client.ID))

		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for uid, set := range h.users {
				for _, c := range set {
					close(c.Send)
				}
				delete(h.users, uid)
			}
			h.mu.Unlock()
			return
		}
	}
}
