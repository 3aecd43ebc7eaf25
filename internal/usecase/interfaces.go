package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/stockledger/internal/domain"
)

// InventoryRepository defines data access for stock balance rows.
type InventoryRepository interface {
	Create(ctx context.Context, tx Transaction, inventory *domain.Inventory) error
	GetByStoreAndProduct(ctx context.Context, storeID, productID string) (*domain.Inventory, error)
	GetForUpdate(ctx context.Context, tx Transaction, storeID, productID string) (*domain.Inventory, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, quantity int64, unitCost, totalCost decimal.Decimal, updatedAt time.Time) error
	ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*domain.Inventory, error)
	ListByProduct(ctx context.Context, productID string) ([]*domain.Inventory, error)
	ListLowStock(ctx context.Context, threshold int64, storeID string, limit, offset int) ([]*domain.Inventory, error)
	TotalValue(ctx context.Context, storeID string) (decimal.Decimal, error)
}

// MovementRepository defines data access for the append-only movement log.
type MovementRepository interface {
	Create(ctx context.Context, tx Transaction, movement *domain.Movement) error
	List(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error)
	SumQuantityChanges(ctx context.Context, storeID, productID string) (int64, error)
}

// OrderRepository defines data access for orders and their line items.
type OrderRepository interface {
	Create(ctx context.Context, tx Transaction, order *domain.Order, items []*domain.OrderItem) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Order, error)
	GetItems(ctx context.Context, orderID string) ([]*domain.OrderItem, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.OrderStatus, reason *string, updatedAt time.Time) error
	List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)
	TotalSales(ctx context.Context, storeID string, startDate, endDate *time.Time) (decimal.Decimal, error)
	CountByStatus(ctx context.Context, status domain.OrderStatus, storeID string) (int64, error)
	ProductSales(ctx context.Context, productID string, startDate, endDate *time.Time) (int64, decimal.Decimal, error)
}

// Catalog is the product catalog collaborator. The core only asks whether a
// product exists and what its current effective price is.
type Catalog interface {
	ProductExists(ctx context.Context, id string) (bool, error)
	CurrentPrice(ctx context.Context, productID string) (*domain.ProductPrice, error)
}

// Directory is the store/employee/customer directory collaborator.
type Directory interface {
	StoreExists(ctx context.Context, id string) (bool, error)
	EmployeeExists(ctx context.Context, id string) (bool, error)
	CustomerExists(ctx context.Context, id string) (bool, error)
}

// OutboxRepository defines data access for the transactional outbox.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures such as
// deadlocks or serialization conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
