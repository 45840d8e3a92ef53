// Package fitchat is a small client for the fitness chat WebSocket
// protocol, used by the example CLI and for manual testing against a
// running server.
package fitchat

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is a named message received from the server.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Handler receives every server event.
type Handler func(Event)

// Client is a connection to the chat server.
type Client struct {
	conn    *websocket.Conn
	handler Handler

	mu     sync.Mutex
	closed bool
}

// Dial connects to the chat endpoint, e.g. "ws://localhost:5000/ws".
// The handler is invoked from a single goroutine for every server event.
func Dial(url string, handler Handler) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	c := &Client{conn: conn, handler: handler}
	go c.readLoop()
	return c, nil
}

func (c *Client) readLoop() {
	for {
		var ev Event
		if err := c.conn.ReadJSON(&ev); err != nil {
			return
		}
		if c.handler != nil {
			c.handler(ev)
		}
	}
}

// emit sends a named event with the given payload.
func (c *Client) emit(name string, payload interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("client closed")
	}
	return c.conn.WriteJSON(map[string]interface{}{
		"event": name,
		"data":  payload,
	})
}

// Authenticate identifies the user behind this connection.
func (c *Client) Authenticate(userID, username string) error {
	return c.emit("authenticate", map[string]string{
		"userId":   userID,
		"username": username,
	})
}

// Join subscribes to the conversation room with a peer.
func (c *Client) Join(userID, peerID, peerName string) error {
	return c.emit("join", map[string]string{
		"userId":   userID,
		"peerId":   peerID,
		"peerName": peerName,
	})
}

// Send delivers a text message to a peer.
func (c *Client) Send(senderID, receiverID, content string) error {
	return c.emit("send", map[string]string{
		"senderId":    senderID,
		"receiverId":  receiverID,
		"content":     content,
		"messageType": "text",
	})
}

// Typing signals typing state toward a peer.
func (c *Client) Typing(receiverID string, isTyping bool) error {
	return c.emit("typing", map[string]interface{}{
		"receiverId": receiverID,
		"isTyping":   isTyping,
	})
}

// MarkRead acknowledges messages from a peer.
func (c *Client) MarkRead(messageIDs []string, senderID string) error {
	return c.emit("mark_read", map[string]interface{}{
		"messageIds": messageIDs,
		"senderId":   senderID,
	})
}

// GetHistory requests persisted messages of the conversation with a peer.
func (c *Client) GetHistory(peerID string, limit, offset int) error {
	return c.emit("get_history", map[string]interface{}{
		"peerId": peerID,
		"limit":  limit,
		"offset": offset,
	})
}

// Close shuts the connection down.
func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}
