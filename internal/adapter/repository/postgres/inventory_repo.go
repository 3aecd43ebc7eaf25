package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/stockledger/internal/domain"
	"github.com/iho/stockledger/internal/usecase"
)

const inventoryColumns = `id, store_id, product_id, quantity_balance, unit_cost, total_cost, created_at, updated_at`

// InventoryRepository implements usecase.InventoryRepository.
type InventoryRepository struct {
	pool *pgxpool.Pool
}

// NewInventoryRepository creates a new InventoryRepository.
func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

// Create inserts a new balance row.
func (r *InventoryRepository) Create(ctx context.Context, tx usecase.Transaction, inventory *domain.Inventory) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO store_inventory (id, store_id, product_id, quantity_balance, unit_cost, total_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		inventory.ID,
		inventory.StoreID,
		inventory.ProductID,
		inventory.QuantityBalance,
		decimalToNumeric(inventory.UnitCost),
		decimalToNumeric(inventory.TotalCost),
		timeToPgTimestamptz(inventory.CreatedAt),
		timeToPgTimestamptz(inventory.UpdatedAt),
	)

	return err
}

// GetByStoreAndProduct retrieves the balance for a (store, product) pair.
func (r *InventoryRepository) GetByStoreAndProduct(ctx context.Context, storeID, productID string) (*domain.Inventory, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+inventoryColumns+`
		FROM store_inventory
		WHERE store_id = $1 AND product_id = $2
	`, storeID, productID)

	return scanInventory(row)
}

// GetForUpdate retrieves the balance for a pair with a FOR UPDATE lock.
func (r *InventoryRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, storeID, productID string) (*domain.Inventory, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+inventoryColumns+`
		FROM store_inventory
		WHERE store_id = $1 AND product_id = $2
		FOR UPDATE
	`, storeID, productID)

	return scanInventory(row)
}

// UpdateBalance updates quantity and costs of a balance row.
func (r *InventoryRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, quantity int64, unitCost, totalCost decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE store_inventory
		SET quantity_balance = $2, unit_cost = $3, total_cost = $4, updated_at = $5
		WHERE id = $1
	`,
		id,
		quantity,
		decimalToNumeric(unitCost),
		decimalToNumeric(totalCost),
		timeToPgTimestamptz(updatedAt),
	)

	return err
}

// ListByStore lists balances for a store with pagination.
func (r *InventoryRepository) ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*domain.Inventory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+inventoryColumns+`
		FROM store_inventory
		WHERE store_id = $1
		ORDER BY product_id
		LIMIT $2 OFFSET $3
	`, storeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanInventories(rows)
}

// ListByProduct lists a product's balances across all stores.
func (r *InventoryRepository) ListByProduct(ctx context.Context, productID string) ([]*domain.Inventory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+inventoryColumns+`
		FROM store_inventory
		WHERE product_id = $1
		ORDER BY store_id
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanInventories(rows)
}

// ListLowStock lists balances at or below the threshold quantity.
func (r *InventoryRepository) ListLowStock(ctx context.Context, threshold int64, storeID string, limit, offset int) ([]*domain.Inventory, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM store_inventory
		WHERE quantity_balance <= $1
	`
	args := []any{threshold}

	if storeID != "" {
		query += ` AND store_id = $2 ORDER BY quantity_balance, product_id LIMIT $3 OFFSET $4`
		args = append(args, storeID, limit, offset)
	} else {
		query += ` ORDER BY quantity_balance, product_id LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanInventories(rows)
}

// TotalValue sums total cost across balances, optionally for one store.
func (r *InventoryRepository) TotalValue(ctx context.Context, storeID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(total_cost), 0) FROM store_inventory`
	args := []any{}

	if storeID != "" {
		query += ` WHERE store_id = $1`
		args = append(args, storeID)
	}

	var total pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

func scanInventory(row pgx.Row) (*domain.Inventory, error) {
	var (
		inv                  domain.Inventory
		unitCost, totalCost  pgtype.Numeric
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&inv.ID,
		&inv.StoreID,
		&inv.ProductID,
		&inv.QuantityBalance,
		&unitCost,
		&totalCost,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInventoryNotFound
		}

		return nil, err
	}

	inv.UnitCost = numericToDecimal(unitCost)
	inv.TotalCost = numericToDecimal(totalCost)
	inv.CreatedAt = createdAt.Time
	inv.UpdatedAt = updatedAt.Time

	return &inv, nil
}

func scanInventories(rows pgx.Rows) ([]*domain.Inventory, error) {
	var result []*domain.Inventory

	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, err
		}

		result = append(result, inv)
	}

	return result, rows.Err()
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
