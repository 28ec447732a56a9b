package websocket

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"memehub/internal/models"

	"go.uber.org/zap"
)

const broadcastBuffer = 256

type outbound struct {
	memeID  string
	payload []byte
}

// Hub maintains the set of active clients and fans mutation events out to
// them. Publish never blocks: when the hub or a client falls behind, the
// event is dropped for that listener.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	connected  atomic.Int64
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan outbound, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run starts the hub's processing loop and returns once ctx is cancelled,
// after closing every client's send channel.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("websocket hub started")
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.connected.Store(0)
			h.logger.Info("websocket hub stopped")
			return

		case client := <-h.register:
			h.clients[client] = true
			h.connected.Store(int64(len(h.clients)))
			h.logger.Debug("websocket client registered",
				zap.String("client_id", client.ID.String()),
				zap.String("meme_id", client.MemeID),
				zap.Int("clients", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.connected.Store(int64(len(h.clients)))
				h.logger.Debug("websocket client unregistered",
					zap.String("client_id", client.ID.String()),
					zap.Int("clients", len(h.clients)))
			}

		case msg := <-h.broadcast:
			for client := range h.clients {
				if client.MemeID != "" && client.MemeID != msg.memeID {
					continue
				}
				select {
				case client.send <- msg.payload:
				default:
					h.logger.Warn("websocket send buffer full, event dropped",
						zap.String("client_id", client.ID.String()))
				}
			}
		}
	}
}

// Publish queues an event for every interested client.
func (h *Hub) Publish(event models.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to encode event", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- outbound{memeID: event.MemeID, payload: payload}:
	default:
		h.logger.Warn("websocket hub busy, event dropped", zap.String("type", string(event.Type)))
	}
}

// Register hands a client to the hub. It reports false once the hub stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Connected returns the number of registered listeners.
func (h *Hub) Connected() int {
	return int(h.connected.Load())
}
