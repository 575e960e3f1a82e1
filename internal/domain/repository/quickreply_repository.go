package repository

import (
	"context"

	"reviewdesk/internal/domain/entity"
)

type QuickReplyRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*entity.QuickReply, error)
	Create(ctx context.Context, reply *entity.QuickReply) (*entity.QuickReply, error)
	Update(ctx context.Context, id string, reply *entity.QuickReply) (*entity.QuickReply, error)
	Delete(ctx context.Context, id string) error
}
