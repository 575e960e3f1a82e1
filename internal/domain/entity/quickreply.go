package entity

import "time"

// QuickReply maps a shortcut token ("/hello") to a message template.
// Templates may embed placeholder tokens that are substituted at
// expansion time.
type QuickReply struct {
	ID        string    `json:"id"`
	Shortcut  string    `json:"shortcut"`
	Message   string    `json:"message"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
