package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/LeartBytyqi1/my-fit-companion/internal/models"
)

// fakeConn records every event delivered to it.
type fakeConn struct {
	events []Event
}

func (f *fakeConn) Send(ev Event) { f.events = append(f.events, ev) }

func (f *fakeConn) named(name string) []Event {
	var out []Event
	for _, ev := range f.events {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}

func (f *fakeConn) reset() { f.events = nil }

// fakeStore keeps messages in memory, newest first per room, the way the
// Redis store serves them.
type fakeStore struct {
	rooms      map[string][]models.ChatMessage
	appendErr  error
	historyErr error
	lastLimit  int
	nextID     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{rooms: make(map[string][]models.ChatMessage)}
}

func (f *fakeStore) Append(_ context.Context, msg *models.ChatMessage) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.nextID++
	msg.ID = fmt.Sprintf("msg-%d", f.nextID)
	msg.CreatedAt = time.Now().UnixMilli()
	// Prepend: newest first.
	f.rooms[msg.Room] = append([]models.ChatMessage{*msg}, f.rooms[msg.Room]...)
	return nil
}

func (f *fakeStore) History(_ context.Context, room string, limit, offset int) ([]models.ChatMessage, error) {
	f.lastLimit = limit
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	msgs := f.rooms[room]
	if offset >= len(msgs) {
		return nil, nil
	}
	msgs = msgs[offset:]
	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return append([]models.ChatMessage(nil), msgs...), nil
}

type fixture struct {
	hub      *Hub
	presence *Registry
	store    *fakeStore
}

func newFixture() *fixture {
	return &fixture{
		hub:      NewHub(),
		presence: NewRegistry(),
		store:    newFakeStore(),
	}
}

func (fx *fixture) session(conn Sender) *Session {
	return NewSession(conn, fx.hub, fx.presence, fx.store, zerolog.Nop())
}

// authed builds a session already authenticated as userID.
func (fx *fixture) authed(t *testing.T, conn *fakeConn, userID, username string) *Session {
	t.Helper()
	s := fx.session(conn)
	s.Authenticate(AuthenticatePayload{UserID: userID, Username: username})
	if len(conn.named(EventAuthenticated)) != 1 {
		t.Fatalf("expected authenticated ack for %s", userID)
	}
	conn.reset()
	return s
}

func TestAuthenticateRequiresUserID(t *testing.T) {
	fx := newFixture()
	conn := &fakeConn{}
	s := fx.session(conn)

	s.Authenticate(AuthenticatePayload{Username: "Ghost"})

	if len(conn.named(EventError)) != 1 {
		t.Fatal("expected an error event")
	}
	if len(conn.named(EventAuthenticated)) != 0 {
		t.Fatal("must not acknowledge without a user ID")
	}
	if len(fx.presence.All()) != 0 {
		t.Fatal("presence must stay empty")
	}
}

func TestAuthenticateRegistersPresenceAndAnnounces(t *testing.T) {
	fx := newFixture()
	other := &fakeConn{}
	fx.session(other)

	conn := &fakeConn{}
	s := fx.session(conn)
	s.Authenticate(AuthenticatePayload{UserID: "1", Username: "Alice"})

	acks := conn.named(EventAuthenticated)
	if len(acks) != 1 {
		t.Fatalf("expected 1 authenticated ack, got %d", len(acks))
	}
	ack := acks[0].Data.(AuthenticatedPayload)
	if ack.UserID != "1" || ack.Username != "Alice" {
		t.Fatalf("unexpected ack payload: %+v", ack)
	}

	entry, ok := fx.presence.Get("1")
	if !ok || entry.Conn != conn {
		t.Fatal("presence should hold the authenticating connection")
	}

	online := other.named(EventUserOnline)
	if len(online) != 1 {
		t.Fatalf("other connections should see user_online, got %d", len(online))
	}
	if online[0].Data.(PresencePayload).UserID != "1" {
		t.Fatal("user_online should carry the authenticated user")
	}
	if len(conn.named(EventUserOnline)) != 0 {
		t.Fatal("the authenticating connection must not see its own user_online")
	}
}

func TestReauthenticateOverwrites(t *testing.T) {
	fx := newFixture()
	old := &fakeConn{}
	fx.authed(t, old, "1", "Alice")

	fresh := &fakeConn{}
	fx.authed(t, fresh, "1", "Alice")

	entry, _ := fx.presence.Get("1")
	if entry.Conn != fresh {
		t.Fatal("newer connection should own the presence entry")
	}
}

func TestJoinRequiresAuth(t *testing.T) {
	fx := newFixture()
	conn := &fakeConn{}
	s := fx.session(conn)

	s.Join(JoinPayload{UserID: "1", PeerID: "2"})

	if len(conn.named(EventError)) != 1 {
		t.Fatal("join before authenticate should error")
	}
	if fx.hub.Joined("1:2", conn) {
		t.Fatal("connection must not be subscribed")
	}
}

func TestJoinSubscribesAndNotifiesPeer(t *testing.T) {
	fx := newFixture()
	aliceConn := &fakeConn{}
	alice := fx.authed(t, aliceConn, "1", "Alice")
	bobConn := &fakeConn{}
	fx.authed(t, bobConn, "2", "Bob")

	alice.Join(JoinPayload{UserID: "1", PeerID: "2", PeerName: "Bob"})

	joined := aliceConn.named(EventJoined)
	if len(joined) != 1 {
		t.Fatalf("expected 1 joined ack, got %d", len(joined))
	}
	jp := joined[0].Data.(JoinedPayload)
	if jp.Room != "1:2" {
		t.Fatalf("expected room 1:2, got %q", jp.Room)
	}
	if !fx.hub.Joined("1:2", aliceConn) {
		t.Fatal("connection should be subscribed to the room")
	}

	peer := bobConn.named(EventPeerJoined)
	if len(peer) != 1 {
		t.Fatalf("online peer should get peer_joined, got %d", len(peer))
	}
	pp := peer[0].Data.(PeerJoinedPayload)
	if pp.UserID != "1" || pp.Username != "Alice" || pp.Room != "1:2" {
		t.Fatalf("unexpected peer_joined payload: %+v", pp)
	}
}

func TestJoinOfflinePeerNoNotice(t *testing.T) {
	fx := newFixture()
	conn := &fakeConn{}
	s := fx.authed(t, conn, "1", "Alice")

	s.Join(JoinPayload{UserID: "1", PeerID: "99"})

	if len(conn.named(EventJoined)) != 1 {
		t.Fatal("join should still be acknowledged")
	}
}

func TestSendFanOutAndAck(t *testing.T) {
	fx := newFixture()
	aliceConn := &fakeConn{}
	alice := fx.authed(t, aliceConn, "1", "Alice")
	bobConn := &fakeConn{}
	bob := fx.authed(t, bobConn, "2", "Bob")

	alice.Join(JoinPayload{UserID: "1", PeerID: "2"})
	bob.Join(JoinPayload{UserID: "2", PeerID: "1"})
	aliceConn.reset()
	bobConn.reset()

	alice.Send(context.Background(), SendPayload{
		SenderID:   "1",
		ReceiverID: "2",
		Content:    "Hello Bob! How are you?",
	})

	for name, conn := range map[string]*fakeConn{"alice": aliceConn, "bob": bobConn} {
		msgs := conn.named(EventMessage)
		if len(msgs) != 1 {
			t.Fatalf("%s should get exactly 1 message, got %d", name, len(msgs))
		}
		msg := msgs[0].Data.(*models.ChatMessage)
		if msg.Room != "1:2" || msg.Content != "Hello Bob! How are you?" {
			t.Fatalf("unexpected message for %s: %+v", name, msg)
		}
		if msg.MessageType != models.MessageTypeText {
			t.Fatalf("message type should default to text, got %q", msg.MessageType)
		}
		if msg.SenderName != "Alice" {
			t.Fatalf("sender name should be stamped, got %q", msg.SenderName)
		}
		if msg.ID == "" || msg.CreatedAt == 0 {
			t.Fatal("store should assign id and timestamp")
		}
	}

	acks := aliceConn.named(EventMessageSent)
	if len(acks) != 1 {
		t.Fatalf("sender should get exactly 1 message_sent, got %d", len(acks))
	}
	if acks[0].Data.(MessageSentPayload).Room != "1:2" {
		t.Fatal("ack should carry the room")
	}
	if len(bobConn.named(EventMessageSent)) != 0 {
		t.Fatal("receiver must not get the sender's ack")
	}

	if len(fx.store.rooms["1:2"]) != 1 {
		t.Fatalf("store should hold 1 message, got %d", len(fx.store.rooms["1:2"]))
	}
}

func TestSendWithoutJoin(t *testing.T) {
	fx := newFixture()
	conn := &fakeConn{}
	s := fx.authed(t, conn, "1", "Alice")

	s.Send(context.Background(), SendPayload{SenderID: "1", ReceiverID: "2", Content: "hi"})

	if len(conn.named(EventError)) != 0 {
		t.Fatal("sending without a prior join should succeed")
	}
	if len(conn.named(EventMessageSent)) != 1 {
		t.Fatal("expected a message_sent ack")
	}
	if len(fx.store.rooms["1:2"]) != 1 {
		t.Fatal("message should be persisted under the pair room")
	}
}

func TestSendRejectsSpoofedSender(t *testing.T) {
	fx := newFixture()
	conn := &fakeConn{}
	bobConn := &fakeConn{}
	s := fx.authed(t, conn, "1", "Alice")
	bob := fx.authed(t, bobConn, "2", "Bob")
	bob.Join(JoinPayload{UserID: "2", PeerID: "3"})
	bobConn.reset()

	s.Send(context.Background(), SendPayload{SenderID: "2", ReceiverID: "3", Content: "forged"})

	if len(conn.named(EventError)) != 1 {
		t.Fatal("spoofed sender should be rejected")
	}
	if len(fx.store.rooms["2:3"]) != 0 {
		t.Fatal("nothing may be persisted")
	}
	if len(bobConn.events) != 0 {
		t.Fatal("nothing may be broadcast")
	}
}

func TestSendRequiresAuth(t *testing.T) {
	fx := newFixture()
	conn := &fakeConn{}
	s := fx.session(conn)

	s.Send(context.Background(), SendPayload{SenderID: "1", ReceiverID: "2", Content: "hi"})

	if len(conn.named(EventError)) != 1 {
		t.Fatal("unauthenticated send should error")
	}
}

func TestSendValidation(t *testing.T) {
	cases := []struct {
		name    string
		payload SendPayload
	}{
		{"missing receiver", SendPayload{SenderID: "1", Content: "hi"}},
		{"missing content", SendPayload{SenderID: "1", ReceiverID: "2"}},
		{"whitespace only", SendPayload{SenderID: "1", ReceiverID: "2", Content: "   \n\t "}},
		{"too long", SendPayload{SenderID: "1", ReceiverID: "2", Content: strings.Repeat("x", 1001)}},
		{"bad type", SendPayload{SenderID: "1", ReceiverID: "2", Content: "hi", MessageType: "video"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newFixture()
			conn := &fakeConn{}
			s := fx.authed(t, conn, "1", "Alice")

			s.Send(context.Background(), tc.payload)

			if len(conn.named(EventError)) != 1 {
				t.Fatal("expected an error event")
			}
			if len(conn.named(EventMessageSent)) != 0 {
				t.Fatal("must not acknowledge")
			}
			if len(fx.store.rooms) != 0 {
				t.Fatal("must not persist")
			}
		})
	}
}

func TestSendContentAtLimit(t *testing.T) {
	fx := newFixture()
	conn := &fakeConn{}
	s := fx.authed(t, conn, "1", "Alice")

	// Multi-byte runes: the limit counts characters, not bytes.
	s.Send(context.Background(), SendPayload{
		SenderID:   "1",
		ReceiverID: "2",
		Content:    strings.Repeat("é", 1000),
	})

	if len(conn.named(EventError)) != 0 {
		t.Fatal("1000 runes should be accepted")
	}
	if len(conn.named(EventMessageSent)) != 1 {
		t.Fatal("expected a message_sent ack")
	}
}

func TestSendStoreFailure(t *testing.T) {
	fx := newFixture()
	fx.store.appendErr = errors.New("redis down")
	aliceConn := &fakeConn{}
	alice := fx.authed(t, aliceConn, "1", "Alice")
	bobConn := &fakeConn{}
	bob := fx.authed(t, bobConn, "2", "Bob")
	bob.Join(JoinPayload{UserID: "2", PeerID: "1"})
	bobConn.reset()

	alice.Send(context.Background(), SendPayload{SenderID: "1", ReceiverID: "2", Content: "hi"})

	errs := aliceConn.named(EventError)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error event, got %d", len(errs))
	}
	ep := errs[0].Data.(ErrorPayload)
	if ep.Details != "redis down" {
		t.Fatalf("error should carry details, got %q", ep.Details)
	}
	if len(aliceConn.named(EventMessageSent)) != 0 {
		t.Fatal("must not acknowledge a failed send")
	}
	if len(bobConn.events) != 0 {
		t.Fatal("must not fan out a failed send")
	}
}

func TestTypingRelay(t *testing.T) {
	fx := newFixture()
	aliceConn := &fakeConn{}
	alice := fx.authed(t, aliceConn, "1", "Alice")
	bobConn := &fakeConn{}
	bob := fx.authed(t, bobConn, "2", "Bob")
	alice.Join(JoinPayload{UserID: "1", PeerID: "2"})
	bob.Join(JoinPayload{UserID: "2", PeerID: "1"})
	aliceConn.reset()
	bobConn.reset()

	alice.Typing(TypingPayload{ReceiverID: "2", IsTyping: true})
	alice.Typing(TypingPayload{ReceiverID: "2", IsTyping: false})

	notices := bobConn.named(EventTyping)
	if len(notices) != 2 {
		t.Fatalf("expected 2 typing notices, got %d", len(notices))
	}
	start := notices[0].Data.(TypingNotice)
	stop := notices[1].Data.(TypingNotice)
	if !start.IsTyping || stop.IsTyping {
		t.Fatal("typing state should be relayed as sent")
	}
	if start.UserID != "1" || start.Username != "Alice" {
		t.Fatalf("unexpected notice: %+v", start)
	}
	if len(aliceConn.events) != 0 {
		t.Fatal("typing must not echo to the sender")
	}
	if len(fx.store.rooms) != 0 {
		t.Fatal("typing is ephemeral; nothing may be persisted")
	}
}

func TestTypingSilentWithoutAuth(t *testing.T) {
	fx := newFixture()
	conn := &fakeConn{}
	s := fx.session(conn)

	s.Typing(TypingPayload{ReceiverID: "2", IsTyping: true})

	if len(conn.events) != 0 {
		t.Fatal("typing is best-effort: no error, no ack")
	}
}

func TestMarkReadRelayAndConfirm(t *testing.T) {
	fx := newFixture()
	aliceConn := &fakeConn{}
	alice := fx.authed(t, aliceConn, "1", "Alice")
	bobConn := &fakeConn{}
	bob := fx.authed(t, bobConn, "2", "Bob")
	alice.Join(JoinPayload{UserID: "1", PeerID: "2"})
	bob.Join(JoinPayload{UserID: "2", PeerID: "1"})
	aliceConn.reset()
	bobConn.reset()

	alice.MarkRead(MarkReadPayload{MessageIDs: []string{"m1", "m2"}, SenderID: "2"})

	reads := bobConn.named(EventMessageRead)
	if len(reads) != 1 {
		t.Fatalf("peer should get message_read, got %d", len(reads))
	}
	rp := reads[0].Data.(MessageReadPayload)
	if rp.ReadBy != "1" || len(rp.MessageIDs) != 2 {
		t.Fatalf("unexpected message_read: %+v", rp)
	}

	receipts := aliceConn.named(EventReadReceipt)
	if len(receipts) != 1 {
		t.Fatalf("caller should get read_receipt, got %d", len(receipts))
	}
	if receipts[0].Data.(ReadReceiptPayload).Status != "confirmed" {
		t.Fatal("receipt should be confirmed")
	}
}

func TestMarkReadRejectsEmpty(t *testing.T) {
	fx := newFixture()
	conn := &fakeConn{}
	s := fx.authed(t, conn, "1", "Alice")

	s.MarkRead(MarkReadPayload{SenderID: "2"})

	if len(conn.named(EventError)) != 1 {
		t.Fatal("empty message id list should error")
	}
}

func TestHistoryChronological(t *testing.T) {
	fx := newFixture()
	conn := &fakeConn{}
	s := fx.authed(t, conn, "1", "Alice")

	for _, content := range []string{"first", "second", "third"} {
		s.Send(context.Background(), SendPayload{SenderID: "1", ReceiverID: "2", Content: content})
	}
	conn.reset()

	s.GetHistory(context.Background(), HistoryRequest{PeerID: "2"})

	events := conn.named(EventHistory)
	if len(events) != 1 {
		t.Fatalf("expected 1 history event, got %d", len(events))
	}
	hp := events[0].Data.(HistoryPayload)
	if hp.Room != "1:2" {
		t.Fatalf("expected room 1:2, got %q", hp.Room)
	}
	if hp.HasMore {
		t.Fatal("3 messages under the default limit means no more pages")
	}
	if len(hp.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(hp.Messages))
	}
	for i, want := range []string{"first", "second", "third"} {
		if hp.Messages[i].Content != want {
			t.Fatalf("position %d: expected %q, got %q", i, want, hp.Messages[i].Content)
		}
	}
}

func TestHistoryPagination(t *testing.T) {
	fx := newFixture()
	conn := &fakeConn{}
	s := fx.authed(t, conn, "1", "Alice")

	for i := 0; i < 5; i++ {
		s.Send(context.Background(), SendPayload{SenderID: "1", ReceiverID: "2", Content: fmt.Sprintf("m%d", i)})
	}
	conn.reset()

	s.GetHistory(context.Background(), HistoryRequest{PeerID: "2", Limit: 2})
	hp := conn.named(EventHistory)[0].Data.(HistoryPayload)
	if !hp.HasMore {
		t.Fatal("a full page should report hasMore")
	}
	if len(hp.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(hp.Messages))
	}
	// Newest page, chronological within the page.
	if hp.Messages[0].Content != "m3" || hp.Messages[1].Content != "m4" {
		t.Fatalf("unexpected page: %q, %q", hp.Messages[0].Content, hp.Messages[1].Content)
	}

	conn.reset()
	s.GetHistory(context.Background(), HistoryRequest{PeerID: "2", Limit: 2, Offset: 4})
	hp = conn.named(EventHistory)[0].Data.(HistoryPayload)
	if hp.HasMore {
		t.Fatal("a short page should not report hasMore")
	}
	if len(hp.Messages) != 1 || hp.Messages[0].Content != "m0" {
		t.Fatalf("expected the oldest message, got %+v", hp.Messages)
	}
}

func TestHistoryLimitDefaultsAndCap(t *testing.T) {
	fx := newFixture()
	conn := &fakeConn{}
	s := fx.authed(t, conn, "1", "Alice")

	s.GetHistory(context.Background(), HistoryRequest{PeerID: "2"})
	if fx.store.lastLimit != 50 {
		t.Fatalf("expected default limit 50, got %d", fx.store.lastLimit)
	}

	s.GetHistory(context.Background(), HistoryRequest{PeerID: "2", Limit: 5000})
	if fx.store.lastLimit != 200 {
		t.Fatalf("expected limit capped at 200, got %d", fx.store.lastLimit)
	}
}

func TestHistoryStoreFailure(t *testing.T) {
	fx := newFixture()
	fx.store.historyErr = errors.New("redis down")
	conn := &fakeConn{}
	s := fx.authed(t, conn, "1", "Alice")

	s.GetHistory(context.Background(), HistoryRequest{PeerID: "2"})

	if len(conn.named(EventError)) != 1 {
		t.Fatal("store failure should surface as an error event")
	}
	if len(conn.named(EventHistory)) != 0 {
		t.Fatal("no history event on failure")
	}
}

func TestStoreNotConfigured(t *testing.T) {
	hub := NewHub()
	presence := NewRegistry()
	conn := &fakeConn{}
	s := NewSession(conn, hub, presence, unavailableStore{}, zerolog.Nop())
	s.Authenticate(AuthenticatePayload{UserID: "1", Username: "Alice"})
	conn.reset()

	s.Send(context.Background(), SendPayload{SenderID: "1", ReceiverID: "2", Content: "hi"})
	if len(conn.named(EventError)) != 1 {
		t.Fatal("send without a store should fail gracefully")
	}

	conn.reset()
	s.Typing(TypingPayload{ReceiverID: "2", IsTyping: true})
	if len(conn.named(EventError)) != 0 {
		t.Fatal("typing must keep working without a store")
	}
}

func TestDisconnect(t *testing.T) {
	fx := newFixture()
	aliceConn := &fakeConn{}
	alice := fx.authed(t, aliceConn, "1", "Alice")
	bobConn := &fakeConn{}
	fx.authed(t, bobConn, "2", "Bob")
	bobConn.reset()

	alice.Disconnect()

	if fx.presence.Online("1") {
		t.Fatal("disconnect should release presence")
	}
	offline := bobConn.named(EventUserOffline)
	if len(offline) != 1 {
		t.Fatalf("others should see user_offline, got %d", len(offline))
	}
	pp := offline[0].Data.(PresencePayload)
	if pp.UserID != "1" || pp.LastSeen == nil {
		t.Fatalf("user_offline should carry the user and lastSeen: %+v", pp)
	}

	// Idempotent: a second disconnect emits nothing.
	bobConn.reset()
	alice.Disconnect()
	if len(bobConn.events) != 0 {
		t.Fatal("second disconnect must be a no-op")
	}
}

func TestDisconnectUnauthenticated(t *testing.T) {
	fx := newFixture()
	other := &fakeConn{}
	fx.authed(t, other, "2", "Bob")
	other.reset()

	conn := &fakeConn{}
	s := fx.session(conn)
	s.Disconnect()

	if len(other.events) != 0 {
		t.Fatal("an unauthenticated connection leaving announces nothing")
	}
}

func TestDisconnectStaleKeepsNewerPresence(t *testing.T) {
	fx := newFixture()
	old := &fakeConn{}
	oldSession := fx.authed(t, old, "1", "Alice")

	fresh := &fakeConn{}
	fx.authed(t, fresh, "1", "Alice")

	oldSession.Disconnect()

	entry, ok := fx.presence.Get("1")
	if !ok || entry.Conn != fresh {
		t.Fatal("the replaced connection must not evict the newer presence entry")
	}
}

func TestDisconnectStopsBroadcasts(t *testing.T) {
	fx := newFixture()
	aliceConn := &fakeConn{}
	alice := fx.authed(t, aliceConn, "1", "Alice")
	bobConn := &fakeConn{}
	bob := fx.authed(t, bobConn, "2", "Bob")
	alice.Join(JoinPayload{UserID: "1", PeerID: "2"})
	bob.Join(JoinPayload{UserID: "2", PeerID: "1"})

	bob.Disconnect()
	aliceConn.reset()
	bobConn.reset()

	alice.Send(context.Background(), SendPayload{SenderID: "1", ReceiverID: "2", Content: "anyone there?"})

	if len(bobConn.events) != 0 {
		t.Fatal("a disconnected member must not receive room broadcasts")
	}
	if len(aliceConn.named(EventMessageSent)) != 1 {
		t.Fatal("the send itself should still succeed")
	}
}
