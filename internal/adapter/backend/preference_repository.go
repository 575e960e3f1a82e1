package backend

import (
	"context"
	"net/http"

	"reviewdesk/internal/domain/entity"
	"reviewdesk/internal/domain/repository"
)

type preferenceRepository struct {
	client *Client
}

func NewPreferenceRepository(client *Client) repository.PreferenceRepository {
	return &preferenceRepository{
		client: client,
	}
}

func (r *preferenceRepository) GetByUser(ctx context.Context, userID string) (*entity.UserPreferences, error) {
	var prefs entity.UserPreferences
	if err := r.client.do(ctx, http.MethodGet, "/users/"+userID+"/preferences", nil, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (r *preferenceRepository) Update(ctx context.Context, userID string, prefs *entity.UserPreferences) (*entity.UserPreferences, error) {
	var updated entity.UserPreferences
	if err := r.client.do(ctx, http.MethodPut, "/users/"+userID+"/preferences", prefs, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
