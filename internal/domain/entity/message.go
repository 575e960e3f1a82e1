package entity

import "time"

const (
	SenderBot      = "bot"      // automated responder
	SenderCustomer = "user"     // the customer on the social platform
	SenderReviewer = "reviewer" // a console user
)

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	SenderType     string    `json:"sender_type"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
	// ClientID correlates an optimistic local message with the server's
	// echo of it on the real-time channel. Empty for inbound messages
	// that did not originate here.
	ClientID string `json:"client_id,omitempty"`
}
