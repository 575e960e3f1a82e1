package backend

import (
	"context"
	"net/http"

	"reviewdesk/internal/domain/entity"
	"reviewdesk/internal/domain/repository"
)

type userRepository struct {
	client *Client
}

func NewUserRepository(client *Client) repository.UserRepository {
	return &userRepository{
		client: client,
	}
}

func (r *userRepository) List(ctx context.Context) ([]*entity.User, error) {
	var data struct {
		Users []*entity.User `json:"users"`
	}
	if err := r.client.do(ctx, http.MethodGet, "/users/list", nil, &data); err != nil {
		return nil, err
	}
	return data.Users, nil
}

func (r *userRepository) SetPermissions(ctx context.Context, userID string, permissions []string) error {
	body := map[string][]string{"permissions": permissions}
	return r.client.do(ctx, http.MethodPut, "/users/"+userID+"/permissions", body, nil)
}

func (r *userRepository) SetCustomerTypes(ctx context.Context, userID string, customerTypes []string) error {
	body := map[string][]string{"customerTypes": customerTypes}
	return r.client.do(ctx, http.MethodPut, "/users/"+userID+"/customer-types", body, nil)
}
