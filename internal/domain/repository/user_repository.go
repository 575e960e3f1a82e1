package repository

import (
	"context"

	"reviewdesk/internal/domain/entity"
)

type UserRepository interface {
	List(ctx context.Context) ([]*entity.User, error)
	SetPermissions(ctx context.Context, userID string, permissions []string) error
	SetCustomerTypes(ctx context.Context, userID string, customerTypes []string) error
}
