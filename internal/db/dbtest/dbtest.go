// Package dbtest connects integration tests to the Postgres named by TEST_DB_DSN.
package dbtest

import (
	"context"
	"os"
	"testing"

	"fuel-storefront/internal/db"
	"fuel-storefront/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool returns a migrated, truncated pool. The test is skipped when TEST_DB_DSN is unset.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()
	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE order_items, orders, tokens, products, customers RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	return pool
}
