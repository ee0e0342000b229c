package wshub

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/coder/websocket"
	"golang.org/x/time/rate"

	"hatparty/internal/metrics"
)

// Client represents a single WebSocket connection in the hub.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte

	limiter *rate.Limiter
}

// NewClient wraps conn with a send buffer of the given size. A nil limiter
// accepts every frame.
func NewClient(id string, conn *websocket.Conn, buffer int, limiter *rate.Limiter) *Client {
	return &Client{
		ID:      id,
		Conn:    conn,
		Send:    make(chan []byte, buffer),
		limiter: limiter,
	}
}

// WritePump reads from the Send channel and writes to the WebSocket connection.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			if err := c.Conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}

// ReadPump delivers text frames to onMessage until the connection fails.
// Binary frames and frames over the rate limit go to onDrop instead.
func (c *Client) ReadPump(ctx context.Context, onMessage func([]byte), onDrop func(reason string)) error {
	for {
		typ, data, err := c.Conn.Read(ctx)
		if err != nil {
			return err
		}
		switch {
		case typ != websocket.MessageText:
			onDrop("binary")
		case c.limiter != nil && !c.limiter.Allow():
			onDrop("rate_limited")
		default:
			onMessage(data)
		}
	}
}

// Hub manages per-room WebSocket connections.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	order   []string

	metrics *metrics.Metrics
	dropped atomic.Uint64
}

// NewHub creates a new Hub. m may be nil.
func NewHub(m *metrics.Metrics) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		metrics: m,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.clients[c.ID]; !exists {
		h.order = append(h.order, c.ID)
	}
	h.clients[c.ID] = c
	h.metrics.ConnectionOpened()
}

// Unregister removes a client and closes its Send channel.
func (h *Hub) Unregister(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[id]
	if !ok {
		return false
	}
	close(c.Send)
	delete(h.clients, id)
	for i, v := range h.order {
		if v == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	h.metrics.ConnectionClosed()
	return true
}

// Send queues data for one client. Non-blocking: drops if channel full.
func (h *Hub) Send(id string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.clients[id]; ok {
		h.offer(c, data)
	}
}

// Broadcast queues data for every client.
func (h *Hub) Broadcast(data []byte) {
	h.BroadcastExcept("", data)
}

// BroadcastExcept sends data to all clients except the sender. Non-blocking: drops if channel full.
func (h *Hub) BroadcastExcept(senderID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.clients {
		if id == senderID {
			continue
		}
		h.offer(c, data)
	}
}

func (h *Hub) offer(c *Client, data []byte) {
	select {
	case c.Send <- data:
	default:
		h.dropped.Add(1)
		h.metrics.Dropped("backpressure")
	}
}

// IDs lists connected clients in registration order.
func (h *Hub) IDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.order...)
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped reports how many outbound frames were discarded on full buffers.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// CloseAll unregisters every client. Their write pumps exit once the
// buffered frames are flushed.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		close(c.Send)
		delete(h.clients, id)
		h.metrics.ConnectionClosed()
	}
	h.order = nil
}
