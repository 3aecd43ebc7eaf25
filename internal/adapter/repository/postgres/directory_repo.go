package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DirectoryRepository implements usecase.Directory over the stores, employees
// and customers tables.
type DirectoryRepository struct {
	pool *pgxpool.Pool
}

// NewDirectoryRepository creates a new DirectoryRepository.
func NewDirectoryRepository(pool *pgxpool.Pool) *DirectoryRepository {
	return &DirectoryRepository{pool: pool}
}

// StoreExists reports whether a store exists.
func (r *DirectoryRepository) StoreExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM stores WHERE id = $1)`, id)
}

// EmployeeExists reports whether an employee exists.
func (r *DirectoryRepository) EmployeeExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM employees WHERE id = $1)`, id)
}

// CustomerExists reports whether a customer exists.
func (r *DirectoryRepository) CustomerExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, id)
}

func (r *DirectoryRepository) exists(ctx context.Context, query, id string) (bool, error) {
	var exists bool

	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}
