package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"fuel-storefront/internal/domain"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "catalog:"

func NewRedisCache(client *redis.Client, baseTTL time.Duration) *RedisCache {
	if baseTTL <= 0 {
		baseTTL = 5 * time.Minute
	}
	return &RedisCache{
		client:    client,
		baseTTL:   baseTTL,
		maxJitter: baseTTL / 5,
	}
}

type RedisCache struct {
	client    *redis.Client
	baseTTL   time.Duration
	maxJitter time.Duration
}

func (r *RedisCache) GetList(ctx context.Context, category *domain.Category) ([]domain.Product, error) {
	var products []domain.Product
	if err := r.get(ctx, listKey(category), &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *RedisCache) SetList(ctx context.Context, category *domain.Category, products []domain.Product) error {
	return r.set(ctx, listKey(category), products)
}

func (r *RedisCache) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := r.get(ctx, productKey(id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *RedisCache) SetProduct(ctx context.Context, p *domain.Product) error {
	return r.set(ctx, productKey(p.ID), p)
}

// Invalidate drops every catalog key. Called after imports and seeding.
func (r *RedisCache) Invalidate(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisCache) get(ctx context.Context, key string, dst any) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshal %s failed: %w", key, err)
	}
	return nil
}

func (r *RedisCache) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", key, err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// ttl spreads expiry so entries written together do not all miss at once.
func (r *RedisCache) ttl() time.Duration {
	if r.maxJitter <= 0 {
		return r.baseTTL
	}
	return r.baseTTL + time.Duration(rand.Int63n(int64(r.maxJitter)))
}

func listKey(category *domain.Category) string {
	if category == nil {
		return keyPrefix + "list:all"
	}
	return fmt.Sprintf("%slist:%d", keyPrefix, int(*category))
}

func productKey(id string) string {
	return keyPrefix + "product:" + id
}

// InvalidateAt drops catalog keys on the Redis server at addr. A blank addr is a no-op,
// so CLI tools can call it unconditionally after changing the catalog.
func InvalidateAt(ctx context.Context, addr string) error {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	return NewRedisCache(client, 0).Invalidate(ctx)
}
