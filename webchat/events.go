package webchat

// PublicChannel is the reserved destination name addressing every connected client.
const PublicChannel = "public"

// inbound event names
const (
	EventSetUsername = "set username"
	EventChatSend    = "chat message"
	EventTyping      = "typing"
	EventStopTyping  = "stop typing"
)

// outbound event names
const (
	EventOnlineUsers        = "online users"
	EventUserDisconnected   = "user disconnected"
	EventChatBroadcast      = "chat message"
	EventPrivateMessage     = "private message"
	EventPrivateMessageSent = "private message sent"
	EventChatError          = "chat error"
	EventIdentityRejected   = "identity rejected"
)

// Event is the envelope for every message the relay pushes to a client.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// NewEvent wraps the passed in payload in an outbound envelope.
func NewEvent(name string, data interface{}) *Event {
	return &Event{Event: name, Data: data}
}

// MessageData is the payload for chat message, private message and private message sent events.
type MessageData struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

// TypingData is the payload for typing and stop typing events.
type TypingData struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// OnlineUsersData is the payload for online users events, always the complete set.
type OnlineUsersData struct {
	Online []string `json:"online"`
}

// UserData is the payload for user disconnected and identity rejected events.
type UserData struct {
	Username string `json:"username"`
}

// ChatErrorData is the payload for chat error events sent back to the message author.
type ChatErrorData struct {
	Message string `json:"message"`
	Target  string `json:"target"`
}
