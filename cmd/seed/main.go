package main

import (
	"context"
	"log"

	"fuel-storefront/internal/cache"
	"fuel-storefront/internal/config"
	"fuel-storefront/internal/db"
	"fuel-storefront/internal/logging"
	productrepo "fuel-storefront/internal/repository/product"
	"fuel-storefront/internal/seed"
	"go.uber.org/zap"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.Named("seed")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	n, err := seed.Apply(ctx, productrepo.NewPostgres(pool, logger))
	if err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}
	if err := cache.InvalidateAt(ctx, cfg.RedisAddr); err != nil {
		logger.Warn("invalidate catalog cache", zap.Error(err))
	}

	logger.Info("seed applied", zap.Int("products", n))
}
