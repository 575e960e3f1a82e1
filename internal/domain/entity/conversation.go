package entity

import "time"

// Conversation is one customer thread as the console sees it: recency
// metadata plus a preview of the latest message. The backend owns the
// authoritative copy; the synchronizer only mutates this local view.
type Conversation struct {
	ID          string    `json:"id"`
	Customer    Customer  `json:"customerObject"`
	Assignee    Assignee  `json:"userObject"`
	LastMessage string    `json:"lastMessage"`
	UpdatedAt   time.Time `json:"updatedAt"`
	UnreadCount int       `json:"unreadCount"`
}

// Assignee is the reviewer the backend has attached to a conversation.
type Assignee struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}
