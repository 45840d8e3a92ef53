// Package chat implements the real-time messaging core: presence tracking,
// deterministic room routing, the per-connection session protocol, durable
// message history, and WebRTC signaling relay.
package chat

import (
	"time"

	"github.com/LeartBytyqi1/my-fit-companion/internal/models"
)

// Client-to-server event names.
const (
	EventAuthenticate = "authenticate"
	EventJoin         = "join"
	EventSend         = "send"
	EventTyping       = "typing"
	EventMarkRead     = "mark_read"
	EventGetHistory   = "get_history"

	EventRTCJoin   = "webrtc:join"
	EventRTCOffer  = "webrtc:offer"
	EventRTCAnswer = "webrtc:answer"
	EventRTCIce    = "webrtc:ice"
)

// Server-to-client event names.
const (
	EventAuthenticated = "authenticated"
	EventJoined        = "joined"
	EventPeerJoined    = "peer_joined"
	EventMessage       = "message"
	EventMessageSent   = "message_sent"
	EventMessageRead   = "message_read"
	EventReadReceipt   = "read_receipt"
	EventHistory       = "history"
	EventUserOnline    = "user_online"
	EventUserOffline   = "user_offline"
	EventError         = "error"
)

// Event is a named message delivered to a connection.
type Event struct {
	Name string      `json:"event"`
	Data interface{} `json:"data,omitempty"`
}

// Sender delivers server events to a single connection. Implemented by the
// WebSocket client; tests substitute in-memory fakes.
type Sender interface {
	Send(Event)
}

// AuthenticatePayload identifies the user behind a connection.
type AuthenticatePayload struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// AuthenticatedPayload acknowledges a successful authenticate.
type AuthenticatedPayload struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// JoinPayload asks to join the conversation room with a peer.
type JoinPayload struct {
	UserID   string `json:"userId"`
	PeerID   string `json:"peerId"`
	PeerName string `json:"peerName,omitempty"`
}

// JoinedPayload acknowledges a join.
type JoinedPayload struct {
	Room     string `json:"room"`
	UserID   string `json:"userId"`
	PeerID   string `json:"peerId"`
	PeerName string `json:"peerName,omitempty"`
}

// PeerJoinedPayload notifies the peer that the caller joined their room.
type PeerJoinedPayload struct {
	Room     string `json:"room"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// SendPayload carries an outgoing chat message.
type SendPayload struct {
	SenderID    string `json:"senderId"`
	ReceiverID  string `json:"receiverId"`
	Content     string `json:"content"`
	MessageType string `json:"messageType,omitempty"`
}

// MessageSentPayload is the private delivery acknowledgment to the sender.
type MessageSentPayload struct {
	MessageID string `json:"messageId"`
	Room      string `json:"room"`
	Timestamp int64  `json:"timestamp"`
}

// TypingPayload signals typing state toward a receiver.
type TypingPayload struct {
	ReceiverID string `json:"receiverId"`
	IsTyping   bool   `json:"isTyping"`
}

// TypingNotice is the relayed typing indicator.
type TypingNotice struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

// MarkReadPayload marks a batch of messages as read.
type MarkReadPayload struct {
	MessageIDs []string `json:"messageIds"`
	SenderID   string   `json:"senderId"`
}

// MessageReadPayload notifies the other party of a read receipt.
type MessageReadPayload struct {
	MessageIDs []string  `json:"messageIds"`
	ReadBy     string    `json:"readBy"`
	ReadAt     time.Time `json:"readAt"`
}

// ReadReceiptPayload confirms a mark_read to the caller.
type ReadReceiptPayload struct {
	MessageIDs []string `json:"messageIds"`
	Status     string   `json:"status"`
}

// HistoryRequest asks for persisted messages of a conversation.
type HistoryRequest struct {
	PeerID string `json:"peerId"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// HistoryPayload returns messages in chronological order.
type HistoryPayload struct {
	Room     string               `json:"room"`
	Messages []models.ChatMessage `json:"messages"`
	HasMore  bool                 `json:"hasMore"`
}

// PresencePayload announces a user going online or offline.
type PresencePayload struct {
	UserID   string     `json:"userId"`
	Username string     `json:"username"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
}

// ErrorPayload is the uniform error channel.
type ErrorPayload struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
