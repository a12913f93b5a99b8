package domain

// Event websocket event name, both directions
type Event string

const (
	// EventJoin client -> server register presence
	EventJoin Event = "join"
	// EventSendMessage client -> server send a chat message
	EventSendMessage Event = "sendMessage"
	// EventTyping client -> server typing indicator
	EventTyping Event = "typing"
	// EventReadReceipt client -> server mark a message read
	EventReadReceipt Event = "readReceipt"

	// EventReceiveMessage server -> client live message hand-off
	EventReceiveMessage Event = "receiveMessage"
	// EventMessageSent server -> client ack back to the sender
	EventMessageSent Event = "messageSent"
	// EventUserTyping server -> client typing notification
	EventUserTyping Event = "userTyping"
)

// WSRequest websocket Request
type WSRequest struct {
	Action     string `json:"action"`
	ChatID     string `json:"chatId"`
	ReceiverID string `json:"receiverId"` // accepted for wire compatibility, membership comes from the chat
	Message    string `json:"message"`
	Media      string `json:"media"`
	MessageID  string `json:"messageId"`
}

// WSResponse websocket Response
type WSResponse struct {
	Action  string                 `json:"action"`
	Success bool                   `json:"success"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	Error   string                 `json:"error,omitempty"`
}
