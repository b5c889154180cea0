package order

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

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger.Named("order_repo")}
}

func (r *postgresRepo) Submit(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error) {
	if len(draft.Items) == 0 {
		return nil, errors.New("order has no items")
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	order := domain.Order{
		CustomerID:      draft.CustomerID,
		Status:          domain.OrderStatusPending,
		Subtotal:        draft.Subtotal,
		DeliveryFee:     draft.DeliveryFee,
		TotalAmount:     draft.TotalAmount,
		DeliveryAddress: draft.DeliveryAddress,
		PaymentMethod:   draft.PaymentMethod,
		Instructions:    draft.Instructions,
		Items:           make([]domain.OrderItem, 0, len(draft.Items)),
	}
	err = tx.QueryRow(ctx, `
INSERT INTO orders (customer_id, status, subtotal, delivery_fee, total_amount, delivery_address, payment_method, instructions)
VALUES ($1::uuid, $2, $3::numeric, $4::numeric, $5::numeric, $6, $7, $8)
RETURNING id::text, created_at
`,
		draft.CustomerID,
		order.Status,
		draft.Subtotal.String(),
		draft.DeliveryFee.String(),
		draft.TotalAmount.String(),
		draft.DeliveryAddress,
		string(draft.PaymentMethod),
		draft.Instructions,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		r.logger.Error("insert order", zap.String("customer_id", draft.CustomerID), zap.Error(err))
		return nil, err
	}

	for _, line := range draft.Items {
		if _, err := tx.Exec(ctx, `
INSERT INTO order_items (order_id, product_id, product_name, unit, quantity, price_at_order, line_total)
VALUES ($1::uuid, $2, $3, $4, $5::numeric, $6::numeric, $7::numeric)
`, order.ID, line.ProductID, line.Name, line.Unit, line.Quantity.String(), line.UnitPrice.String(), line.LineTotal.String()); err != nil {
			r.logger.Error("insert order item", zap.String("order_id", order.ID), zap.String("product_id", line.ProductID), zap.Error(err))
			return nil, err
		}
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:    line.ProductID,
			ProductName:  line.Name,
			Unit:         line.Unit,
			Quantity:     line.Quantity,
			PriceAtOrder: line.UnitPrice,
			LineTotal:    line.LineTotal,
		})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Info("order stored", zap.String("order_id", order.ID), zap.Int("items", len(order.Items)))
	return &order, nil
}

// ordersByCustomerQuery filters on the uuid column so orders_customer_created_idx applies.
const ordersByCustomerQuery = `
SELECT id::text, customer_id::text, status, subtotal::text, delivery_fee::text, total_amount::text,
       delivery_address, payment_method, instructions, created_at
FROM orders
WHERE customer_id = $1::uuid
ORDER BY created_at DESC, id
`

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, ordersByCustomerQuery, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	index := make(map[string]int)
	ids := make([]string, 0)
	for rows.Next() {
		var (
			o                         domain.Order
			subtotal, fee, total, pay string
		)
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Status, &subtotal, &fee, &total,
			&o.DeliveryAddress, &pay, &o.Instructions, &o.CreatedAt); err != nil {
			return nil, err
		}
		if err := parseDecimals(
			decimalField{subtotal, &o.Subtotal},
			decimalField{fee, &o.DeliveryFee},
			decimalField{total, &o.TotalAmount},
		); err != nil {
			return nil, fmt.Errorf("order %s: %w", o.ID, err)
		}
		o.PaymentMethod = domain.PaymentMethod(pay)
		o.Items = []domain.OrderItem{}
		index[o.ID] = len(orders)
		ids = append(ids, o.ID)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return orders, nil
	}

	const itemsQuery = `
SELECT order_id::text, product_id, product_name, unit, quantity::text, price_at_order::text, line_total::text
FROM order_items
WHERE order_id::text = ANY($1)
ORDER BY id
`
	itemRows, err := r.pool.Query(ctx, itemsQuery, ids)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			orderID          string
			item             domain.OrderItem
			qty, price, line string
		)
		if err := itemRows.Scan(&orderID, &item.ProductID, &item.ProductName, &item.Unit, &qty, &price, &line); err != nil {
			return nil, err
		}
		if err := parseDecimals(
			decimalField{qty, &item.Quantity},
			decimalField{price, &item.PriceAtOrder},
			decimalField{line, &item.LineTotal},
		); err != nil {
			return nil, fmt.Errorf("order %s item %s: %w", orderID, item.ProductID, err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}
	r.logger.Debug("listed orders", zap.String("customer_id", customerID), zap.Int("count", len(orders)))
	return orders, nil
}

type decimalField struct {
	text string
	dst  *decimal.Decimal
}

func parseDecimals(fields ...decimalField) error {
	for _, f := range fields {
		d, err := decimal.NewFromString(f.text)
		if err != nil {
			return fmt.Errorf("parse numeric %q: %w", f.text, err)
		}
		*f.dst = d
	}
	return nil
}
