package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/craftstore/backend/internal/model"
	"github.com/craftstore/backend/internal/service"
	"github.com/craftstore/backend/pkg/database"
)

// OrderRepository provides data access for orders and their line items.
type OrderRepository struct {
	pool Pool
}

// NewOrderRepository creates a new OrderRepository with the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// NewOrderRepositoryWithPool creates an OrderRepository with a custom
// pool interface. This is primarily used for testing.
func NewOrderRepositoryWithPool(pool Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `id, user_id, total_amount, status, shipping_address,
	contact_name, contact_email, contact_phone, payment_method,
	special_instructions, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.TotalAmount,
		&o.Status,
		&o.ShippingAddress,
		&o.ContactName,
		&o.ContactEmail,
		&o.ContactPhone,
		&o.PaymentMethod,
		&o.SpecialInstructions,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// InsertOrder persists the order header inside the caller's
// transaction and fills in generated fields.
func (r *OrderRepository) InsertOrder(ctx context.Context, tx database.TxQuerier, o *model.Order) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO orders (user_id, total_amount, status, shipping_address,
			contact_name, contact_email, contact_phone, payment_method,
			special_instructions, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		 RETURNING id, created_at`,
		o.UserID, o.TotalAmount, o.Status, o.ShippingAddress,
		o.ContactName, o.ContactEmail, o.ContactPhone, o.PaymentMethod,
		o.SpecialInstructions,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// InsertItem persists one order line with its price snapshot inside
// the caller's transaction.
func (r *OrderRepository) InsertItem(ctx context.Context, tx database.TxQuerier, item *model.OrderItem) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO order_items (order_id, product_id, quantity, unit_price, total_price)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.TotalPrice,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// GetByID retrieves an order with its items.
// Returns service.ErrOrderNotFound if it does not exist.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepository) listItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, product_id, quantity, unit_price, total_price
		 FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("get items for order %d: %w", orderID, err)
	}
	defer rows.Close()

	items := []model.OrderItem{}
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity,
			&it.UnitPrice, &it.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return items, nil
}

// ListByUser returns a user's orders, newest first, items included.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE user_id = $1 ORDER BY created_at DESC, id DESC
		 OFFSET $2 LIMIT $3`, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders for user %d: %w", userID, err)
	}
	return r.collectOrders(ctx, rows)
}

// ListAll returns orders matching the filter, newest first, items
// included.
func (r *OrderRepository) ListAll(ctx context.Context, f model.OrderFilter) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}
	if f.Status != "" {
		query += ` WHERE status = $1 ORDER BY created_at DESC, id DESC OFFSET $2 LIMIT $3`
		args = append(args, f.Status, f.Offset, f.Limit)
	} else {
		query += ` ORDER BY created_at DESC, id DESC OFFSET $1 LIMIT $2`
		args = append(args, f.Offset, f.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return r.collectOrders(ctx, rows)
}

func (r *OrderRepository) collectOrders(ctx context.Context, rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	for i := range orders {
		items, err := r.listItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// UpdateStatus sets an order's status.
// Returns service.ErrOrderNotFound if nothing was updated.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status)
	if err != nil {
		return fmt.Errorf("update status for order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrOrderNotFound
	}
	return nil
}
