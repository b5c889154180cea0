package order

import (
	"context"

	"fuel-storefront/internal/domain"
)

// Repository stores submitted orders. Submit is all-or-nothing.
type Repository interface {
	Submit(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
}
