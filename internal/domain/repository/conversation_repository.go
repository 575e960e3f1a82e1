package repository

import (
	"context"

	"reviewdesk/internal/domain/entity"
)

// ConversationRepository reads conversation state from the backend. The
// console never writes conversations directly; sends go over the
// real-time channel and the backend persists them.
type ConversationRepository interface {
	List(ctx context.Context) ([]*entity.Conversation, error)
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	Messages(ctx context.Context, conversationID string) ([]*entity.Message, error)
}
