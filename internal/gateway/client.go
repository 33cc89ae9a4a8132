package gateway

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/logging"
)

// feedWriteTimeout bounds a single frame write so one stalled consumer
// cannot block a broadcast.
const feedWriteTimeout = 5 * time.Second

// FeedClient is one connected operator feed consumer.
type FeedClient struct {
	ConnID      string
	Socket      *websocket.Conn
	ConnectedAt time.Time

	mu     sync.Mutex
	closed bool
	log    *logging.Logger
}

// NewFeedClient wraps an upgraded WebSocket connection.
func NewFeedClient(conn *websocket.Conn, log *logging.Logger) *FeedClient {
	return &FeedClient{
		ConnID:      uuid.New().String(),
		Socket:      conn,
		ConnectedAt: time.Now(),
		log:         log,
	}
}

// Send writes one frame to the client. Thread-safe.
func (c *FeedClient) Send(frame EventFrame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	c.Socket.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
	return c.Socket.WriteJSON(frame)
}

// Close closes the connection. Safe to call more than once.
func (c *FeedClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.Socket.Close()
}

// ClientRegistry tracks connected feed consumers.
type ClientRegistry struct {
	mu      sync.RWMutex
	clients map[string]*FeedClient // connID → client
	log     *logging.Logger
}

// NewClientRegistry creates an empty registry.
func NewClientRegistry(log *logging.Logger) *ClientRegistry {
	return &ClientRegistry{
		clients: make(map[string]*FeedClient),
		log:     log,
	}
}

// Add registers a connected client.
func (r *ClientRegistry) Add(c *FeedClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.ConnID] = c
	r.log.Info().Str("connId", c.ConnID).Msg("feed client connected")
}

// Remove unregisters a client by connection ID.
func (r *ClientRegistry) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, connID)
	r.log.Info().Str("connId", connID).Msg("feed client disconnected")
}

// Count returns the number of connected clients.
func (r *ClientRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Broadcast sends a frame to every connected client. Send failures are
// logged and skipped; the dead connection is reaped by its read loop.
func (r *ClientRegistry) Broadcast(frame EventFrame) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.clients {
		if err := c.Send(frame); err != nil {
			r.log.Warn().Err(err).Str("connId", c.ConnID).Str("event", frame.Event).Msg("broadcast send failed")
		}
	}
}

// CloseAll closes every connected client.
func (r *ClientRegistry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.clients {
		c.Close()
		delete(r.clients, id)
	}
}
