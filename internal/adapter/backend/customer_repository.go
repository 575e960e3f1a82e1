package backend

import (
	"context"
	"net/http"

	"reviewdesk/internal/domain/entity"
	"reviewdesk/internal/domain/repository"
)

type customerRepository struct {
	client *Client
}

func NewCustomerRepository(client *Client) repository.CustomerRepository {
	return &customerRepository{
		client: client,
	}
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	var customer entity.Customer
	if err := r.client.do(ctx, http.MethodGet, "/customers/"+id, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}
