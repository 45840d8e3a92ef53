package chat

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/LeartBytyqi1/my-fit-companion/internal/metrics"
	"github.com/LeartBytyqi1/my-fit-companion/internal/models"
)

const (
	maxContentLength = 1000
	defaultHistLimit = 50
	maxHistLimit     = 200
	storeTimeout     = 5 * time.Second
)

// MessageStore is the durable backend for chat messages. Append assigns the
// message id and timestamp; History returns messages newest first.
type MessageStore interface {
	Append(ctx context.Context, msg *models.ChatMessage) error
	History(ctx context.Context, room string, limit, offset int) ([]models.ChatMessage, error)
}

// unavailableStore stands in when no message store is configured. Sends and
// history requests fail with a protocol error instead of crashing the
// connection; presence, typing and signaling keep working.
type unavailableStore struct{}

func (unavailableStore) Append(context.Context, *models.ChatMessage) error {
	return errStoreNotConfigured
}

func (unavailableStore) History(context.Context, string, int, int) ([]models.ChatMessage, error) {
	return nil, errStoreNotConfigured
}

var errStoreNotConfigured = errors.New("message store not configured")

// Session is the per-connection protocol state machine. It starts
// unauthenticated, becomes authenticated on a valid Authenticate, and ends
// with Disconnect. Methods are invoked from the connection's read loop and
// are not safe for concurrent use on the same session; the registry and hub
// carry their own locks.
type Session struct {
	conn     Sender
	hub      *Hub
	presence *Registry
	store    MessageStore
	logger   zerolog.Logger

	userID   string
	username string
	closed   bool
}

// NewSession creates a session for one connection and registers it with the
// hub's global broadcast group.
func NewSession(conn Sender, hub *Hub, presence *Registry, store MessageStore, logger zerolog.Logger) *Session {
	hub.Register(conn)
	return &Session{
		conn:     conn,
		hub:      hub,
		presence: presence,
		store:    store,
		logger:   logger,
	}
}

// UserID returns the authenticated identity, or "" before authentication.
func (s *Session) UserID() string {
	return s.userID
}

func (s *Session) errorf(message string) {
	s.conn.Send(Event{Name: EventError, Data: ErrorPayload{Message: message}})
}

// Authenticate binds a user identity to the connection and registers
// presence. Re-authentication silently overwrites the stored identity.
func (s *Session) Authenticate(p AuthenticatePayload) {
	if p.UserID == "" {
		s.errorf("user ID is required")
		return
	}

	s.userID = p.UserID
	s.username = p.Username

	s.presence.Set(p.UserID, Entry{
		Conn:     s.conn,
		Username: p.Username,
		LastSeen: time.Now(),
	})

	s.conn.Send(Event{Name: EventAuthenticated, Data: AuthenticatedPayload{
		UserID:   p.UserID,
		Username: p.Username,
	}})

	s.hub.BroadcastAll(s.conn, Event{Name: EventUserOnline, Data: PresencePayload{
		UserID:   p.UserID,
		Username: p.Username,
	}})

	s.logger.Debug().Str("user_id", p.UserID).Str("username", p.Username).Msg("chat session authenticated")
}

// Join subscribes the connection to the conversation room with a peer and
// notifies the peer if they are online.
func (s *Session) Join(p JoinPayload) {
	if s.userID == "" {
		s.errorf("please authenticate first")
		return
	}
	if p.UserID == "" || p.PeerID == "" {
		s.errorf("both user IDs are required")
		return
	}

	room := RoomKey(p.UserID, p.PeerID)
	s.hub.Join(room, s.conn)

	s.conn.Send(Event{Name: EventJoined, Data: JoinedPayload{
		Room:     room,
		UserID:   p.UserID,
		PeerID:   p.PeerID,
		PeerName: p.PeerName,
	}})

	// Notify the peer directly, not the whole room
	if entry, ok := s.presence.Get(p.PeerID); ok {
		entry.Conn.Send(Event{Name: EventPeerJoined, Data: PeerJoinedPayload{
			Room:     room,
			UserID:   p.UserID,
			Username: s.username,
		}})
	}
}

// Send validates, persists and fans out a chat message. Fan-out happens only
// after persistence succeeds; the sender gets a private message_sent ack
// after the fan-out. Sending does not require a prior Join: the room key is
// computed from the sender/receiver pair on every send, so join remains
// advisory (it drives peer_joined notices and broadcast subscription only).
func (s *Session) Send(ctx context.Context, p SendPayload) {
	if s.userID == "" {
		s.errorf("please authenticate first")
		return
	}
	if p.SenderID == "" || p.ReceiverID == "" || p.Content == "" {
		s.errorf("sender ID, receiver ID, and content are required")
		return
	}
	if p.SenderID != s.userID {
		s.errorf("sender ID must match authenticated user")
		return
	}

	content := strings.TrimSpace(p.Content)
	if content == "" {
		s.errorf("message content cannot be empty")
		return
	}
	if utf8.RuneCountInString(content) > maxContentLength {
		s.errorf("message too long (max 1000 characters)")
		return
	}

	messageType := p.MessageType
	if messageType == "" {
		messageType = models.MessageTypeText
	}
	if !models.ValidMessageType(messageType) {
		s.errorf("invalid message type")
		return
	}

	room := RoomKey(p.SenderID, p.ReceiverID)

	msg := &models.ChatMessage{
		Room:        room,
		SenderID:    p.SenderID,
		ReceiverID:  p.ReceiverID,
		Content:     content,
		MessageType: messageType,
		SenderName:  s.username,
	}

	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	if err := s.store.Append(storeCtx, msg); err != nil {
		s.logger.Error().Err(err).Str("room", room).Msg("failed to persist chat message")
		s.conn.Send(Event{Name: EventError, Data: ErrorPayload{
			Message: "failed to send message",
			Details: err.Error(),
		}})
		return
	}

	s.hub.Broadcast(room, Event{Name: EventMessage, Data: msg})

	s.conn.Send(Event{Name: EventMessageSent, Data: MessageSentPayload{
		MessageID: msg.ID,
		Room:      room,
		Timestamp: msg.CreatedAt,
	}})

	metrics.ChatMessagesSent.WithLabelValues(messageType).Inc()
}

// Typing relays an ephemeral typing indicator to the other members of the
// conversation room. Never persisted, never acknowledged.
func (s *Session) Typing(p TypingPayload) {
	if s.userID == "" || p.ReceiverID == "" {
		return
	}

	room := RoomKey(s.userID, p.ReceiverID)
	s.hub.BroadcastExcept(room, s.conn, Event{Name: EventTyping, Data: TypingNotice{
		UserID:   s.userID,
		Username: s.username,
		IsTyping: p.IsTyping,
	}})
}

// MarkRead relays a read receipt to the other party and confirms to the
// caller. Read status is advisory: persisted read flags are reserved in the
// schema but not updated here.
func (s *Session) MarkRead(p MarkReadPayload) {
	if s.userID == "" || len(p.MessageIDs) == 0 {
		s.errorf("invalid read receipt data")
		return
	}

	room := RoomKey(s.userID, p.SenderID)
	s.hub.BroadcastExcept(room, s.conn, Event{Name: EventMessageRead, Data: MessageReadPayload{
		MessageIDs: p.MessageIDs,
		ReadBy:     s.userID,
		ReadAt:     time.Now(),
	}})

	s.conn.Send(Event{Name: EventReadReceipt, Data: ReadReceiptPayload{
		MessageIDs: p.MessageIDs,
		Status:     "confirmed",
	}})
}

// GetHistory replays persisted messages for a conversation in chronological
// order. The storage query runs newest first; the page is reversed before
// delivery. HasMore is true iff a full page came back.
func (s *Session) GetHistory(ctx context.Context, p HistoryRequest) {
	if s.userID == "" || p.PeerID == "" {
		s.errorf("user ID and peer ID are required")
		return
	}

	limit := p.Limit
	if limit <= 0 {
		limit = defaultHistLimit
	}
	if limit > maxHistLimit {
		limit = maxHistLimit
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}

	room := RoomKey(s.userID, p.PeerID)

	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	messages, err := s.store.History(storeCtx, room, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Str("room", room).Msg("failed to query chat history")
		s.errorf("failed to retrieve chat history")
		return
	}

	hasMore := len(messages) == limit

	// Newest-first from storage; chronological on the wire
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	s.conn.Send(Event{Name: EventHistory, Data: HistoryPayload{
		Room:     room,
		Messages: messages,
		HasMore:  hasMore,
	}})

	metrics.ChatHistoryQueries.Inc()
}

// Disconnect tears the session down: presence is released (only if this
// connection still owns the entry) and everyone else learns the user went
// offline. Idempotent.
func (s *Session) Disconnect() {
	if s.closed {
		return
	}
	s.closed = true

	s.hub.Unregister(s.conn)

	if s.userID == "" {
		return
	}

	s.presence.RemoveConn(s.userID, s.conn)

	lastSeen := time.Now()
	s.hub.BroadcastAll(s.conn, Event{Name: EventUserOffline, Data: PresencePayload{
		UserID:   s.userID,
		Username: s.username,
		LastSeen: &lastSeen,
	}})

	s.logger.Debug().Str("user_id", s.userID).Msg("chat session disconnected")
}
