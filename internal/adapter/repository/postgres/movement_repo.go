package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/stockledger/internal/domain"
	"github.com/iho/stockledger/internal/usecase"
)

// MovementRepository implements usecase.MovementRepository. The movement log
// is append-only: rows are never updated or deleted.
type MovementRepository struct {
	pool *pgxpool.Pool
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(pool *pgxpool.Pool) *MovementRepository {
	return &MovementRepository{pool: pool}
}

// Create appends a movement record.
func (r *MovementRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO inventory_movements (id, store_id, product_id, quantity_change, unit_cost, movement_type, reference_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		movement.ID,
		movement.StoreID,
		movement.ProductID,
		movement.QuantityChange,
		decimalToNumeric(movement.UnitCost),
		string(movement.Type),
		movement.ReferenceID,
		movement.Notes,
		timeToPgTimestamptz(movement.CreatedAt),
	)

	return err
}

// List retrieves movements matching the filter, newest first.
func (r *MovementRepository) List(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error) {
	query := `
		SELECT id, store_id, product_id, quantity_change, unit_cost, movement_type, reference_id, notes, created_at
		FROM inventory_movements
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

	if filter.ProductID != "" {
		addArg(` AND product_id = $%d`, filter.ProductID)
	}

	if filter.Type != "" {
		addArg(` AND movement_type = $%d`, string(filter.Type))
	}

	if filter.ReferenceID != "" {
		addArg(` AND reference_id = $%d`, filter.ReferenceID)
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

	var movements []*domain.Movement
	for rows.Next() {
		mv, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}

		movements = append(movements, mv)
	}

	return movements, rows.Err()
}

// SumQuantityChanges sums quantity changes over a pair's whole movement log.
func (r *MovementRepository) SumQuantityChanges(ctx context.Context, storeID, productID string) (int64, error) {
	var sum int64

	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity_change), 0)
		FROM inventory_movements
		WHERE store_id = $1 AND product_id = $2
	`, storeID, productID).Scan(&sum)
	if err != nil {
		return 0, err
	}

	return sum, nil
}

func scanMovement(row pgx.Row) (*domain.Movement, error) {
	var (
		mv           domain.Movement
		movementType string
		unitCost     pgtype.Numeric
		createdAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&mv.ID,
		&mv.StoreID,
		&mv.ProductID,
		&mv.QuantityChange,
		&unitCost,
		&movementType,
		&mv.ReferenceID,
		&mv.Notes,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	mv.Type = domain.MovementType(movementType)
	mv.UnitCost = numericToDecimal(unitCost)
	mv.CreatedAt = createdAt.Time

	return &mv, nil
}
