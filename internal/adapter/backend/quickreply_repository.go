package backend

import (
	"context"
	"net/http"

	"reviewdesk/internal/domain/entity"
	"reviewdesk/internal/domain/repository"
)

type quickReplyRepository struct {
	client *Client
}

func NewQuickReplyRepository(client *Client) repository.QuickReplyRepository {
	return &quickReplyRepository{
		client: client,
	}
}

func (r *quickReplyRepository) ListByUser(ctx context.Context, userID string) ([]*entity.QuickReply, error) {
	var data struct {
		QuickReplies []*entity.QuickReply `json:"quickReplies"`
	}
	if err := r.client.do(ctx, http.MethodGet, "/users/"+userID+"/quick-replies", nil, &data); err != nil {
		return nil, err
	}
	return data.QuickReplies, nil
}

func (r *quickReplyRepository) Create(ctx context.Context, reply *entity.QuickReply) (*entity.QuickReply, error) {
	var created entity.QuickReply
	if err := r.client.do(ctx, http.MethodPost, "/quick-replies", reply, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *quickReplyRepository) Update(ctx context.Context, id string, reply *entity.QuickReply) (*entity.QuickReply, error) {
	var updated entity.QuickReply
	if err := r.client.do(ctx, http.MethodPut, "/quick-replies/"+id, reply, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *quickReplyRepository) Delete(ctx context.Context, id string) error {
	return r.client.do(ctx, http.MethodDelete, "/quick-replies/"+id, nil, nil)
}
