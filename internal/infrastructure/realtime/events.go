package realtime

import "encoding/json"

// Channel event names, matching the upstream server's contract.
const (
	EventMessageReceived = "receive_mess"
	EventMessageSend     = "send_mess"
)

// Envelope frames every event on the wire.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// SendMessagePayload is the outbound send_mess body. ClientID lets the
// console recognize the server's echo of its own message.
type SendMessagePayload struct {
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	Content        string `json:"content"`
	ClientID       string `json:"client_id,omitempty"`
}
