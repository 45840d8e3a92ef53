package models

// Message kinds accepted by the chat protocol.
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeFile  = "file"
	MessageTypeEmoji = "emoji"
)

// ChatMessage represents a chat message document stored in Redis.
// Read, Deleted and EditedAt are reserved: the schema carries them but no
// protocol event writes them yet.
type ChatMessage struct {
	ID          string `json:"id"` // ULID
	Room        string `json:"room"`
	SenderID    string `json:"senderId"`
	ReceiverID  string `json:"receiverId"`
	Content     string `json:"content"`
	MessageType string `json:"messageType"`
	SenderName  string `json:"senderName,omitempty"`
	Read        bool   `json:"read"`
	Deleted     bool   `json:"deleted"`
	CreatedAt   int64  `json:"createdAt"` // Unix ms
	EditedAt    int64  `json:"editedAt,omitempty"`
}

// ValidMessageType reports whether t is one of the accepted message kinds.
func ValidMessageType(t string) bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeFile, MessageTypeEmoji:
		return true
	}
	return false
}
