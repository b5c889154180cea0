package product

import (
	"context"
	"errors"
	"strings"

	"fuel-storefront/internal/cache"
	"fuel-storefront/internal/domain"
	productrepo "fuel-storefront/internal/repository/product"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service is the catalog reader. Reads go through the cache and concurrent
// misses for the same key share one repository call.
type Service struct {
	repo   productrepo.Repository
	cache  cache.CatalogCache
	sfg    singleflight.Group
	logger *zap.Logger
}

func New(repo productrepo.Repository, c cache.CatalogCache, logger *zap.Logger) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, cache: c, logger: logger.Named("catalog")}
}

// ListActive returns active products, optionally restricted to one category.
func (s *Service) ListActive(ctx context.Context, category *domain.Category) ([]domain.Product, error) {
	key := "list:all"
	if category != nil {
		key = "list:" + category.String()
	}
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		products, err := s.cache.GetList(ctx, category)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}

		products, err = s.repo.ListActive(ctx, category)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetList(ctx, category, products); err != nil {
			s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

// Get returns a product by id, including inactive ones so carts can still describe them.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrNotFound
	}
	v, err, _ := s.sfg.Do("product:"+id, func() (interface{}, error) {
		p, err := s.cache.GetProduct(ctx, id)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("cache get failed", zap.String("product_id", id), zap.Error(err))
		}

		p, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetProduct(ctx, p); err != nil {
			s.logger.Warn("cache set failed", zap.String("product_id", id), zap.Error(err))
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	p := *v.(*domain.Product)
	return &p, nil
}

// Invalidate drops cached catalog reads after the catalog changes.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx)
}
