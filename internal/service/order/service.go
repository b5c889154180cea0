package order

import (
	"context"

	"fuel-storefront/internal/domain"
	orderrepo "fuel-storefront/internal/repository/order"
)

// Service reads a customer's order history.
type Service struct {
	repo orderrepo.Repository
}

func New(repo orderrepo.Repository) *Service {
	return &Service{repo: repo}
}

// History returns the customer's orders, newest first.
func (s *Service) History(ctx context.Context, customerID string) ([]domain.Order, error) {
	orders, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}
