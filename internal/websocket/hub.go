package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hello2026ai/skytrips-admin-sub003/shared/models"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	MessageTypePricingStarted MessageType = "pricing_started"
	MessageTypeOfferPriced    MessageType = "offer_priced"
	MessageTypePricingFailed  MessageType = "pricing_failed"
)

// Message represents a WebSocket message
type Message struct {
	Type      MessageType                  `json:"type"`
	Token     string                       `json:"token"`
	OfferID   string                       `json:"offerId,omitempty"`
	Pricing   *models.PricingWorkflowState `json:"pricing,omitempty"`
	Message   string                       `json:"message,omitempty"`
	Timestamp int64                        `json:"timestamp"`
}

// Client represents a WebSocket client connection
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	token string
}

// Hub manages WebSocket connections per search token
type Hub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop. It returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.token] == nil {
				h.clients[client.token] = make(map[*Client]bool)
			}
			h.clients[client.token][client] = true
			log.Printf("WebSocket: Client registered for search %s (total: %d)", client.token, len(h.clients[client.token]))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				log.Printf("WebSocket: Failed to marshal message: %v", err)
				continue
			}

			h.mu.Lock()
			clients := h.clients[message.Token]
			log.Printf("WebSocket: Broadcasting %s to %d clients for search %s", message.Type, len(clients), message.Token)
			for client := range clients {
				select {
				case client.send <- data:
				default:
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove drops a client; callers hold h.mu
func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.token]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	log.Printf("WebSocket: Client unregistered from search %s (remaining: %d)", client.token, len(clients))
	if len(clients) == 0 {
		delete(h.clients, client.token)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.remove(client)
		}
	}
}

// BroadcastPricingStarted tells clients of a search that an offer is being priced
func (h *Hub) BroadcastPricingStarted(token, offerID string) {
	h.publish(&Message{
		Type:      MessageTypePricingStarted,
		Token:     token,
		OfferID:   offerID,
		Timestamp: time.Now().UnixMilli(),
	})
}

// NotifyPricing pushes the final pricing state to clients of a search
func (h *Hub) NotifyPricing(token string, state models.PricingWorkflowState) {
	msg := &Message{
		Type:      MessageTypeOfferPriced,
		Token:     token,
		OfferID:   state.OfferID,
		Pricing:   &state,
		Timestamp: time.Now().UnixMilli(),
	}
	if state.Status != models.PricingStatusPriced {
		msg.Type = MessageTypePricingFailed
		msg.Message = state.FailureReason
	} else if state.PriceChanged {
		msg.Message = "The fare changed since the search"
	}
	h.publish(msg)
}

// publish queues msg unless the hub has stopped
func (h *Hub) publish(msg *Message) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// GetClientCount returns the number of clients watching a search
func (h *Hub) GetClientCount(token string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[token])
}
