package backend

import (
	"context"
	"net/http"

	"reviewdesk/internal/domain/entity"
	"reviewdesk/internal/domain/repository"
)

type conversationRepository struct {
	client *Client
}

func NewConversationRepository(client *Client) repository.ConversationRepository {
	return &conversationRepository{
		client: client,
	}
}

func (r *conversationRepository) List(ctx context.Context) ([]*entity.Conversation, error) {
	var data struct {
		Conversations []*entity.Conversation `json:"conversations"`
	}
	if err := r.client.do(ctx, http.MethodGet, "/conversations", nil, &data); err != nil {
		return nil, err
	}
	return data.Conversations, nil
}

func (r *conversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	var conversation entity.Conversation
	if err := r.client.do(ctx, http.MethodGet, "/conversations/"+id, nil, &conversation); err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepository) Messages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	var data struct {
		Messages []*entity.Message `json:"messages"`
	}
	if err := r.client.do(ctx, http.MethodGet, "/conversations/"+conversationID+"/messages", nil, &data); err != nil {
		return nil, err
	}
	return data.Messages, nil
}
