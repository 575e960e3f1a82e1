package repository

import (
	"context"

	"reviewdesk/internal/domain/entity"
)

type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
}
