package product

import (
	"context"

	"fuel-storefront/internal/domain"
)

// Repository reads the catalog. Upsert is used by the importer and seed tools.
type Repository interface {
	ListActive(ctx context.Context, category *domain.Category) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
