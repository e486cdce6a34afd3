package analytics

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

// Client is one dashboard connection. All frames, pings included, go
// through the send queue so a single goroutine owns the socket writes.
type Client struct {
	conn *websocket.Conn
	send chan interface{}
	stop chan struct{}
	once sync.Once
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan interface{}, sendBuffer),
		stop: make(chan struct{}),
	}
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.stop)
		_ = c.conn.Close()
	})
}

// writeLoop drains the send queue and keeps the connection alive with
// pings. Every write carries a deadline, so a client that stopped
// reading gets disconnected instead of holding the goroutine.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.stop:
			return
		}
	}
}

// Hub fans dashboard events out to every open connection for a business.
// An owner may keep several dashboard tabs open, so connections are a set
// per business rather than a single slot.
type Hub struct {
	connections map[int64]map[*Client]bool
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[int64]map[*Client]bool),
	}
}

// Register wraps the connection and starts its writer goroutine.
func (h *Hub) Register(businessID int64, conn *websocket.Conn) *Client {
	client := newClient(conn)

	h.mutex.Lock()
	if h.connections[businessID] == nil {
		h.connections[businessID] = make(map[*Client]bool)
	}
	h.connections[businessID][client] = true
	h.mutex.Unlock()

	go client.writeLoop()
	return client
}

func (h *Hub) Unregister(businessID int64, client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conns, exists := h.connections[businessID]; exists {
		if conns[client] {
			client.close()
			delete(conns, client)
		}
		if len(conns) == 0 {
			delete(h.connections, businessID)
		}
	}
}

// Broadcast queues one event for every dashboard watching the business.
// It never blocks: feedback and view handlers call it on the request
// path, so a client whose queue is full is dropped instead of backing
// the request up behind a stalled socket.
func (h *Hub) Broadcast(businessID int64, message interface{}) int {
	h.mutex.RLock()
	clients := make([]*Client, 0, len(h.connections[businessID]))
	for client := range h.connections[businessID] {
		clients = append(clients, client)
	}
	h.mutex.RUnlock()

	queued := 0
	for _, client := range clients {
		select {
		case client.send <- message:
			queued++
		default:
			h.Unregister(businessID, client)
		}
	}
	return queued
}

func (h *Hub) WatcherCount(businessID int64) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections[businessID])
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for businessID, conns := range h.connections {
		for client := range conns {
			client.close()
		}
		delete(h.connections, businessID)
	}
}
