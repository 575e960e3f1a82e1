package entity

import "time"

type NotificationSettings struct {
	Browser bool `json:"browser"`
	Sound   bool `json:"sound"`
}

type ChatSettings struct {
	AutoPrioritizeUnread   bool `json:"autoPrioritizeUnread"`
	SkipToNextUnread       bool `json:"skipToNextUnread"`
	ShowConversationStatus bool `json:"showConversationStatus"`
}

type UserPreferences struct {
	ID            string               `json:"id"`
	UserID        string               `json:"userId"`
	Notifications NotificationSettings `json:"notifications"`
	Chat          ChatSettings         `json:"chat"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}
