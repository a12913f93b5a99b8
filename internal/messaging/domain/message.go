package domain

// MessageStatus definition message delivery lifecycle state
type MessageStatus string

const (
	// StatusSent message persisted, no live hand-off yet
	StatusSent MessageStatus = "sent"
	// StatusDelivered message handed to a connected recipient
	StatusDelivered MessageStatus = "delivered"
	// StatusRead recipient confirmed reading, terminal
	StatusRead MessageStatus = "read"
)

// rank orders statuses for the forward-only check
func (s MessageStatus) rank() int {
	switch s {
	case StatusSent:
		return 0
	case StatusDelivered:
		return 1
	case StatusRead:
		return 2
	}
	return -1
}

// Valid report s is a known status
func (s MessageStatus) Valid() bool {
	return s.rank() >= 0
}

// CanTransition report the move from s to next is allowed.
// Transitions only go forward: sent -> delivered -> read. A read receipt may
// arrive for a message that was never marked delivered, so sent -> read is
// also allowed.
func (s MessageStatus) CanTransition(next MessageStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return next.rank() > s.rank()
}

// Message definition one chat message
type Message struct {
	ID             string        `bson:"_id,omitempty" json:"id"`
	ChatID         string        `bson:"chat" json:"chat_id"`
	SenderID       string        `bson:"sender" json:"sender_id"`
	Body           string        `bson:"message,omitempty" json:"message,omitempty"`
	Media          string        `bson:"media,omitempty" json:"media,omitempty"`
	Status         MessageStatus `bson:"status" json:"status"`
	IsMediaVisible bool          `bson:"is_media_visible" json:"is_media_visible"`
	CreatedAt      int64         `bson:"created_at" json:"created_at"`
	UpdatedAt      int64         `bson:"updated_at" json:"updated_at"`
}

// HasContent report the message carries a body or a media reference
func (m *Message) HasContent() bool {
	return m.Body != "" || m.Media != ""
}
