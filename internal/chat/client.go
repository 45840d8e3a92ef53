package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/LeartBytyqi1/my-fit-companion/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 8 * 1024
	sendBufferSize = 256
)

// Client is the WebSocket transport for one connection. It decodes the event
// envelope, dispatches to the session, and serializes outgoing events
// through a buffered send channel.
type Client struct {
	conn    *websocket.Conn
	send    chan []byte
	session *Session
	logger  zerolog.Logger

	mu     sync.Mutex
	closed bool
	once   sync.Once
}

// envelope is the inbound wire format: a named event with a raw payload.
type envelope struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

// Send marshals an event and queues it for delivery. Events to a slow or
// closed connection are dropped; the read pump tears the connection down.
func (c *Client) Send(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		c.logger.Error().Err(err).Str("event", ev.Name).Msg("failed to marshal event")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.Warn().Str("event", ev.Name).Msg("send buffer full; dropping event")
	}
}

func (c *Client) readPump() {
	defer func() {
		c.session.Disconnect()
		c.close()
		metrics.WSConnectionsActive.Dec()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("unexpected websocket close")
			}
			return
		}
		c.dispatch(raw)
	}
}

// dispatch decodes one inbound frame and routes it to the session. Payloads
// are validated into typed structs at this boundary; protocol logic never
// sees raw JSON.
func (c *Client) dispatch(raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.Send(Event{Name: EventError, Data: ErrorPayload{Message: "invalid message format"}})
		return
	}

	decode := func(v interface{}) bool {
		if err := json.Unmarshal(env.Data, v); err != nil {
			c.Send(Event{Name: EventError, Data: ErrorPayload{Message: "invalid payload for " + env.Name}})
			return false
		}
		return true
	}

	ctx := context.Background()

	switch env.Name {
	case EventAuthenticate:
		var p AuthenticatePayload
		if decode(&p) {
			c.session.Authenticate(p)
		}
	case EventJoin:
		var p JoinPayload
		if decode(&p) {
			c.session.Join(p)
		}
	case EventSend:
		var p SendPayload
		if decode(&p) {
			c.session.Send(ctx, p)
		}
	case EventTyping:
		var p TypingPayload
		if decode(&p) {
			c.session.Typing(p)
		}
	case EventMarkRead:
		var p MarkReadPayload
		if decode(&p) {
			c.session.MarkRead(p)
		}
	case EventGetHistory:
		var p HistoryRequest
		if decode(&p) {
			c.session.GetHistory(ctx, p)
		}
	case EventRTCJoin:
		var p RTCJoinPayload
		if decode(&p) {
			c.session.RTCJoin(p)
		}
	case EventRTCOffer:
		var p RTCSessionPayload
		if decode(&p) {
			c.session.RTCOffer(p)
		}
	case EventRTCAnswer:
		var p RTCSessionPayload
		if decode(&p) {
			c.session.RTCAnswer(p)
		}
	case EventRTCIce:
		var p RTCIcePayload
		if decode(&p) {
			c.session.RTCIce(p)
		}
	default:
		c.Send(Event{Name: EventError, Data: ErrorPayload{Message: "unknown event: " + env.Name}})
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) close() {
	c.once.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.send)
		_ = c.conn.Close()
	})
}

// Server owns the shared chat infrastructure and upgrades HTTP requests into
// chat connections.
type Server struct {
	hub      *Hub
	presence *Registry
	store    MessageStore
	logger   zerolog.Logger
	upgrader websocket.Upgrader
}

// NewServer creates the chat server. allowedOrigins restricts WebSocket
// origins; empty allows any (development). A nil store degrades sends and
// history into protocol errors.
func NewServer(store MessageStore, logger zerolog.Logger, allowedOrigins []string) *Server {
	if store == nil {
		store = unavailableStore{}
	}
	return &Server{
		hub:      NewHub(),
		presence: NewRegistry(),
		store:    store,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// Hub exposes the fan-out layer (used by tests and future server-side
// notifications).
func (s *Server) Hub() *Hub {
	return s.hub
}

// Presence exposes the registry.
func (s *Server) Presence() *Registry {
	return s.presence
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		set[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// ServeWS upgrades the request and runs the connection's pumps.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		logger: s.logger.With().Str("remote_addr", r.RemoteAddr).Logger(),
	}
	client.session = NewSession(client, s.hub, s.presence, s.store, client.logger)

	metrics.WSConnectionsActive.Inc()

	go client.writePump()
	go client.readPump()
}
