package cache

import (
	"context"
	"testing"
	"time"

	"fuel-storefront/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, time.Minute), mr
}

func diesel() domain.Product {
	stock := 40
	return domain.Product{
		ID:            "diesel",
		Name:          "Diesel",
		Category:      domain.CategoryFuel,
		Unit:          "Liter",
		CurrentPrice:  decimal.RequireFromString("63.45"),
		StockQuantity: &stock,
		IsActive:      true,
	}
}

func TestProductRoundTrip(t *testing.T) {
	cache, _ := setupTestRedis(t)
	ctx := context.Background()
	p := diesel()

	require.NoError(t, cache.SetProduct(ctx, &p))
	got, err := cache.GetProduct(ctx, "diesel")
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryFuel, got.Category)
	assert.True(t, got.CurrentPrice.Equal(p.CurrentPrice))
	require.NotNil(t, got.StockQuantity)
	assert.Equal(t, 40, *got.StockQuantity)
}

func TestGet_CacheMiss(t *testing.T) {
	cache, _ := setupTestRedis(t)
	ctx := context.Background()

	_, err := cache.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	fuel := domain.CategoryFuel
	_, err = cache.GetList(ctx, &fuel)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestGet_InvalidJSON(t *testing.T) {
	cache, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(productKey("bad"), "{not json"))

	_, err := cache.GetProduct(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestListKeysAreSeparatedByCategory(t *testing.T) {
	cache, _ := setupTestRedis(t)
	ctx := context.Background()
	fuel := domain.CategoryFuel
	oil := domain.CategoryMotorOil

	require.NoError(t, cache.SetList(ctx, &fuel, []domain.Product{diesel()}))
	require.NoError(t, cache.SetList(ctx, nil, []domain.Product{diesel(), {ID: "oil", Category: oil}}))

	fuels, err := cache.GetList(ctx, &fuel)
	require.NoError(t, err)
	assert.Len(t, fuels, 1)

	all, err := cache.GetList(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = cache.GetList(ctx, &oil)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestSetAppliesTTLWithJitter(t *testing.T) {
	cache, mr := setupTestRedis(t)
	p := diesel()
	require.NoError(t, cache.SetProduct(context.Background(), &p))

	ttl := mr.TTL(productKey("diesel"))
	assert.GreaterOrEqual(t, ttl, time.Minute)
	assert.Less(t, ttl, time.Minute+time.Minute/5)

	mr.FastForward(2 * time.Minute)
	_, err := cache.GetProduct(context.Background(), "diesel")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestInvalidate(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()
	p := diesel()
	require.NoError(t, cache.SetProduct(ctx, &p))
	require.NoError(t, cache.SetList(ctx, nil, []domain.Product{p}))
	require.NoError(t, mr.Set("unrelated", "keep"))

	require.NoError(t, cache.Invalidate(ctx))

	_, err := cache.GetProduct(ctx, "diesel")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.True(t, mr.Exists("unrelated"))
}

func TestNopAlwaysMisses(t *testing.T) {
	var c CatalogCache = Nop{}
	p := diesel()
	require.NoError(t, c.SetProduct(context.Background(), &p))
	_, err := c.GetProduct(context.Background(), "diesel")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, c.Invalidate(context.Background()))
}

func TestInvalidateAt(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()
	p := diesel()
	require.NoError(t, c.SetProduct(ctx, &p))
	require.NoError(t, mr.Set("other:key", "x"))

	require.NoError(t, InvalidateAt(ctx, mr.Addr()))

	assert.False(t, mr.Exists(productKey(p.ID)))
	assert.True(t, mr.Exists("other:key"))
	assert.NoError(t, InvalidateAt(ctx, ""))
}
