package chat

import "encoding/json"

// WebRTC signaling is a stateless relay: payloads pass through to the other
// members of the named room untouched. No validation, no persistence.

// RTCJoinPayload subscribes the connection to a signaling room.
type RTCJoinPayload struct {
	Room string `json:"room"`
}

// RTCSessionPayload carries an SDP offer or answer.
type RTCSessionPayload struct {
	Room string          `json:"room,omitempty"`
	SDP  json.RawMessage `json:"sdp"`
	From string          `json:"from"`
}

// RTCIcePayload carries an ICE candidate.
type RTCIcePayload struct {
	Room      string          `json:"room,omitempty"`
	Candidate json.RawMessage `json:"candidate"`
	From      string          `json:"from"`
}

// RTCJoin adds the connection to a signaling room.
func (s *Session) RTCJoin(p RTCJoinPayload) {
	s.hub.Join(p.Room, s.conn)
}

// RTCOffer forwards an SDP offer to the other members of the room.
func (s *Session) RTCOffer(p RTCSessionPayload) {
	room := p.Room
	p.Room = ""
	s.hub.BroadcastExcept(room, s.conn, Event{Name: EventRTCOffer, Data: p})
}

// RTCAnswer forwards an SDP answer to the other members of the room.
func (s *Session) RTCAnswer(p RTCSessionPayload) {
	room := p.Room
	p.Room = ""
	s.hub.BroadcastExcept(room, s.conn, Event{Name: EventRTCAnswer, Data: p})
}

// RTCIce forwards an ICE candidate to the other members of the room.
func (s *Session) RTCIce(p RTCIcePayload) {
	room := p.Room
	p.Room = ""
	s.hub.BroadcastExcept(room, s.conn, Event{Name: EventRTCIce, Data: p})
}
