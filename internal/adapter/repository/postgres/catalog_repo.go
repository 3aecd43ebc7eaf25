package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/stockledger/internal/domain"
)

// CatalogRepository implements usecase.Catalog over the products and
// product_prices tables.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// ProductExists reports whether a product exists.
func (r *CatalogRepository) ProductExists(ctx context.Context, id string) (bool, error) {
	var exists bool

	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)
	`, id).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// CurrentPrice retrieves the price record in effect right now: the latest one
// whose effective date has passed and whose end date, if any, has not.
func (r *CatalogRepository) CurrentPrice(ctx context.Context, productID string) (*domain.ProductPrice, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, product_id, current_price, discount_percent, effective_date, end_date, created_at
		FROM product_prices
		WHERE product_id = $1
		  AND effective_date <= NOW()
		  AND (end_date IS NULL OR end_date > NOW())
		ORDER BY effective_date DESC
		LIMIT 1
	`, productID)

	var (
		price                    domain.ProductPrice
		currentPrice, discount   pgtype.Numeric
		effectiveDate, createdAt pgtype.Timestamptz
		endDate                  pgtype.Timestamptz
	)

	err := row.Scan(
		&price.ID,
		&price.ProductID,
		&currentPrice,
		&discount,
		&effectiveDate,
		&endDate,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoCurrentPrice
		}

		return nil, err
	}

	price.CurrentPrice = numericToDecimal(currentPrice)
	if discount.Valid {
		d := numericToDecimal(discount)
		price.DiscountPercent = &d
	}

	price.EffectiveDate = effectiveDate.Time
	if endDate.Valid {
		price.EndDate = &endDate.Time
	}

	price.CreatedAt = createdAt.Time

	return &price, nil
}
