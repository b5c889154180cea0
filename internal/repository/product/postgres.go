package product

import (
	"context"
	"errors"
	"fmt"

	"fuel-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const productColumns = `id, name, category, unit, description, image_url, current_price::text, stock_quantity, is_active, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger.Named("product_repo")}
}

// ListActive returns active products ordered by category then name. Stored
// labels outside the known set read as other lubricants, so the category
// filter runs after parsing.
func (r *postgresRepo) ListActive(ctx context.Context, category *domain.Category) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + `
FROM products
WHERE is_active
ORDER BY category, name`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error("list products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		if category != nil && p.Category != *category {
			continue
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("list products rows", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("listed products", zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + `
FROM products
WHERE id = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("get product", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	q := `
INSERT INTO products (id, name, category, unit, description, image_url, current_price, stock_quantity, is_active)
VALUES (COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3, $4, $5, $6, $7::numeric, $8, $9)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    category = EXCLUDED.category,
    unit = EXCLUDED.unit,
    description = EXCLUDED.description,
    image_url = EXCLUDED.image_url,
    current_price = EXCLUDED.current_price,
    stock_quantity = EXCLUDED.stock_quantity,
    is_active = EXCLUDED.is_active
RETURNING ` + productColumns
	out, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.ID,
		p.Name,
		p.Category.String(),
		p.Unit,
		p.Description,
		p.ImageURL,
		p.CurrentPrice.String(),
		p.StockQuantity,
		p.IsActive,
	))
	if err != nil {
		r.logger.Error("upsert product", zap.String("id", p.ID), zap.String("name", p.Name), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("upserted product", zap.String("id", out.ID), zap.String("name", out.Name))
	return out, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p        domain.Product
		category string
		price    string
	)
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&category,
		&p.Unit,
		&p.Description,
		&p.ImageURL,
		&price,
		&p.StockQuantity,
		&p.IsActive,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("product %s: parse price %q: %w", p.ID, price, err)
	}
	p.CurrentPrice = d
	p.Category = domain.ParseCategory(category)
	return &p, nil
}
