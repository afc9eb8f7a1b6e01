package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256
)

// Client is one live websocket connection with its resolved identity.
// Everything inbound on this connection is attributed to UserID; the client
// never gets to claim a different author.
type Client struct {
	Conn        *websocket.Conn
	Send        chan []byte
	UserID      string
	DisplayName string
	IsCounselor bool

	mu     sync.Mutex
	closed bool
}

// NewClient wraps an upgraded connection with the identity resolved at
// handshake time.
func NewClient(conn *websocket.Conn, userID, displayName string, isCounselor bool) *Client {
	return &Client{
		Conn:        conn,
		Send:        make(chan []byte, sendBufferSize),
		UserID:      userID,
		DisplayName: displayName,
		IsCounselor: isCounselor,
	}
}

// Enqueue places a payload on the outbound queue without blocking. A full
// queue drops the payload; a slow reader must not stall the hub. A hub may
// still hold this client in a membership snapshot while it disconnects, so
// the closed check and the send share the lock.
func (c *Client) Enqueue(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- payload:
		return true
	default:
		log.Printf("Dropping payload for user %s: send buffer full", c.UserID)
		return false
	}
}

// EnqueueJSON marshals v and enqueues it.
func (c *Client) EnqueueJSON(v interface{}) bool {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("Failed to marshal payload for user %s: %v", c.UserID, err)
		return false
	}
	return c.Enqueue(payload)
}

// WritePump drains the send queue onto the socket and keeps the ping
// heartbeat going. One goroutine per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// PrepareRead sets the read limits and pong handler before a read loop runs.
func (c *Client) PrepareRead() {
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
}

// CloseSend shuts the outbound queue exactly once, letting WritePump finish.
func (c *Client) CloseSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}
