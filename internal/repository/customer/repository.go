package customer

import (
	"context"

	"fuel-storefront/internal/domain"
)

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	FullName string
	Phone    string
	Address  string
}

// Repository persists and fetches customers.
type Repository interface {
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*domain.Customer, error)
}
