package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking balance rows
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultLowStockThreshold is the quantity at or below which an item is
	// considered low on stock
	DefaultLowStockThreshold = 10

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// PriceCacheTTL is how long resolved product prices are cached
	PriceCacheTTL = 5 * time.Minute
)
