package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/stockledger/internal/domain"
	"github.com/iho/stockledger/internal/usecase"
)

const orderColumns = `id, customer_id, store_id, employee_id, total_amount, status, cancel_reason, created_at, updated_at`

// OrderRepository implements usecase.OrderRepository.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts an order and all its line items.
func (r *OrderRepository) Create(ctx context.Context, tx usecase.Transaction, order *domain.Order, items []*domain.OrderItem) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO orders (id, customer_id, store_id, employee_id, total_amount, status, cancel_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		order.ID,
		order.CustomerID,
		order.StoreID,
		order.EmployeeID,
		decimalToNumeric(order.TotalAmount),
		string(order.Status),
		order.CancelReason,
		timeToPgTimestamptz(order.CreatedAt),
		timeToPgTimestamptz(order.UpdatedAt),
	)
	if err != nil {
		return err
	}

	for _, item := range items {
		_, err := pgxTx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, price, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.Quantity,
			decimalToNumeric(item.Price),
			timeToPgTimestamptz(item.CreatedAt),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, id)

	return scanOrder(row)
}

// GetByIDForUpdate retrieves an order by ID with a FOR UPDATE lock.
func (r *OrderRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Order, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
		FOR UPDATE
	`, id)

	return scanOrder(row)
}

// GetItems retrieves an order's line items.
func (r *OrderRepository) GetItems(ctx context.Context, orderID string) ([]*domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_id, quantity, price, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.OrderItem
	for rows.Next() {
		var (
			item      domain.OrderItem
			price     pgtype.Numeric
			createdAt pgtype.Timestamptz
		)

		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &price, &createdAt)
		if err != nil {
			return nil, err
		}

		item.Price = numericToDecimal(price)
		item.CreatedAt = createdAt.Time
		items = append(items, &item)
	}

	return items, rows.Err()
}

// UpdateStatus updates an order's status, keeping any previous cancel reason
// when none is given.
func (r *OrderRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.OrderStatus, reason *string, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE orders
		SET status = $2, cancel_reason = COALESCE($3, cancel_reason), updated_at = $4
		WHERE id = $1
	`, id, string(status), reason, timeToPgTimestamptz(updatedAt))

	return err
}

// List retrieves orders matching the filter, newest first.
func (r *OrderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE 1=1
	`
	args := []any{}

	addArg := func(clause string, value any) {
		args = append(args, value)
		query += fmt.Sprintf(clause, len(args))
	}

	if filter.StoreID != "" {
		addArg(` AND store_id = $%d`, filter.StoreID)
	}

	if filter.CustomerID != "" {
		addArg(` AND customer_id = $%d`, filter.CustomerID)
	}

	if filter.EmployeeID != "" {
		addArg(` AND employee_id = $%d`, filter.EmployeeID)
	}

	if filter.Status != "" {
		addArg(` AND status = $%d`, string(filter.Status))
	}

	if filter.StartDate != nil {
		addArg(` AND created_at >= $%d`, *filter.StartDate)
	}

	if filter.EndDate != nil {
		addArg(` AND created_at <= $%d`, *filter.EndDate)
	}

	query += ` ORDER BY created_at DESC`
	addArg(` LIMIT $%d`, filter.Limit)
	addArg(` OFFSET $%d`, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}

		orders = append(orders, order)
	}

	return orders, rows.Err()
}

// TotalSales sums total amounts of completed orders in the optional range.
func (r *OrderRepository) TotalSales(ctx context.Context, storeID string, startDate, endDate *time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE status = $1
	`
	args := []any{string(domain.OrderStatusCompleted)}

	addArg := func(clause string, value any) {
		args = append(args, value)
		query += fmt.Sprintf(clause, len(args))
	}

	if storeID != "" {
		addArg(` AND store_id = $%d`, storeID)
	}

	if startDate != nil {
		addArg(` AND created_at >= $%d`, *startDate)
	}

	if endDate != nil {
		addArg(` AND created_at <= $%d`, *endDate)
	}

	var total pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

// CountByStatus counts orders with the given status.
func (r *OrderRepository) CountByStatus(ctx context.Context, status domain.OrderStatus, storeID string) (int64, error) {
	query := `SELECT COUNT(*) FROM orders WHERE status = $1`
	args := []any{string(status)}

	if storeID != "" {
		query += ` AND store_id = $2`
		args = append(args, storeID)
	}

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// ProductSales reports quantity sold and revenue for a product over completed
// orders in the optional range.
func (r *OrderRepository) ProductSales(ctx context.Context, productID string, startDate, endDate *time.Time) (int64, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(oi.quantity), 0), COALESCE(SUM(oi.quantity * oi.price), 0)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.product_id = $1 AND o.status = $2
	`
	args := []any{productID, string(domain.OrderStatusCompleted)}

	addArg := func(clause string, value any) {
		args = append(args, value)
		query += fmt.Sprintf(clause, len(args))
	}

	if startDate != nil {
		addArg(` AND o.created_at >= $%d`, *startDate)
	}

	if endDate != nil {
		addArg(` AND o.created_at <= $%d`, *endDate)
	}

	var (
		quantity int64
		revenue  pgtype.Numeric
	)

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&quantity, &revenue); err != nil {
		return 0, decimal.Zero, err
	}

	return quantity, numericToDecimal(revenue), nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		order                domain.Order
		status               string
		totalAmount          pgtype.Numeric
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&order.ID,
		&order.CustomerID,
		&order.StoreID,
		&order.EmployeeID,
		&totalAmount,
		&status,
		&order.CancelReason,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}

		return nil, err
	}

	order.Status = domain.OrderStatus(status)
	order.TotalAmount = numericToDecimal(totalAmount)
	order.CreatedAt = createdAt.Time
	order.UpdatedAt = updatedAt.Time

	return &order, nil
}
