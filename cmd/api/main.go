package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fuel-storefront/internal/cache"
	"fuel-storefront/internal/config"
	"fuel-storefront/internal/db"
	"fuel-storefront/internal/events"
	"fuel-storefront/internal/httpserver"
	"fuel-storefront/internal/logging"
	"fuel-storefront/internal/pricing"
	customerrepo "fuel-storefront/internal/repository/customer"
	orderrepo "fuel-storefront/internal/repository/order"
	productrepo "fuel-storefront/internal/repository/product"
	tokenrepo "fuel-storefront/internal/repository/token"
	cartsvc "fuel-storefront/internal/service/cart"
	categorysvc "fuel-storefront/internal/service/category"
	"fuel-storefront/internal/service/checkout"
	customersvc "fuel-storefront/internal/service/customer"
	ordersvc "fuel-storefront/internal/service/order"
	productsvc "fuel-storefront/internal/service/product"
	"fuel-storefront/internal/service/session"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.Named("api")

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	catalogCache := cache.CatalogCache(cache.Nop{})
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unreachable, catalog reads go straight to postgres", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			catalogCache = cache.NewRedisCache(rdb, cfg.CatalogCacheTTL)
		}
		cancel()
	}

	publisher := events.Publisher(events.Nop{})
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.OrderEventsTopic, cfg.Currency, logger)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("close publisher", zap.Error(err))
		}
	}()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	productService := productsvc.New(productRepo, catalogCache, logger)
	categoryService := categorysvc.New()
	cartService := cartsvc.New(productService, pricing.Calculator{AmountDefault: cfg.AmountEntryDefault})

	customerService := customersvc.New(
		customerrepo.NewPostgres(dbpool, logger),
		tokenrepo.NewPostgres(dbpool),
		cfg.AccessTokenTTL,
		logger,
	)

	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	checkoutService := checkout.New(
		checkout.WithBreaker(orderRepo, checkout.BreakerSettings{}, logger),
		checkout.FeePolicy{Fee: cfg.DeliveryFee, FreeThreshold: cfg.FreeDeliveryThreshold},
		checkout.WithPublisher(publisher),
		checkout.WithLogger(logger),
	)
	orderService := ordersvc.New(orderRepo)

	sessions := session.NewRegistry(logger)
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	if cfg.SessionSweepInterval > 0 {
		go sessions.RunSweeper(sweepCtx, customerService, cfg.SessionSweepInterval)
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CustomerSvc:        customerService,
		ProductSvc:         productService,
		CategorySvc:        categoryService,
		CartSvc:            cartService,
		CheckoutSvc:        checkoutService,
		OrderSvc:           orderService,
		Sessions:           sessions,
		Currency:           cfg.Currency,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
