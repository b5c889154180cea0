// Package cache holds the Redis read-through layer in front of the catalog.
package cache

import (
	"context"
	"errors"

	"fuel-storefront/internal/domain"
)

// CatalogCache stores catalog reads. A nil category means the full active list.
type CatalogCache interface {
	GetList(ctx context.Context, category *domain.Category) ([]domain.Product, error)
	SetList(ctx context.Context, category *domain.Category, products []domain.Product) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	SetProduct(ctx context.Context, p *domain.Product) error
	Invalidate(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")

// Nop is used when no Redis address is configured. Every read misses.
type Nop struct{}

func (Nop) GetList(context.Context, *domain.Category) ([]domain.Product, error) {
	return nil, ErrCacheMiss
}

func (Nop) SetList(context.Context, *domain.Category, []domain.Product) error { return nil }

func (Nop) GetProduct(context.Context, string) (*domain.Product, error) { return nil, ErrCacheMiss }

func (Nop) SetProduct(context.Context, *domain.Product) error { return nil }

func (Nop) Invalidate(context.Context) error { return nil }
