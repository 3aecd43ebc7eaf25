package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/stockledger/internal/domain"
	"github.com/iho/stockledger/internal/infrastructure/metrics"
)

// InventoryUseCase owns the stock ledger: every mutating operation updates a
// balance row and appends its movement record in one database transaction,
// with balance rows locked FOR UPDATE in a fixed global order.
type InventoryUseCase struct {
	txManager     TransactionManager
	inventoryRepo InventoryRepository
	movementRepo  MovementRepository
	catalog       Catalog
	directory     Directory
	idGen         IDGenerator
	metrics       *metrics.Metrics
	retrier       Retrier
}

// NewInventoryUseCase creates a new InventoryUseCase.
func NewInventoryUseCase(
	txManager TransactionManager,
	inventoryRepo InventoryRepository,
	movementRepo MovementRepository,
	catalog Catalog,
	directory Directory,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *InventoryUseCase {
	return &InventoryUseCase{
		txManager:     txManager,
		inventoryRepo: inventoryRepo,
		movementRepo:  movementRepo,
		catalog:       catalog,
		directory:     directory,
		idGen:         idGen,
		metrics:       metrics,
	}
}

// WithRetrier makes multi-row operations retry on transient database errors.
func (uc *InventoryUseCase) WithRetrier(r Retrier) *InventoryUseCase {
	uc.retrier = r
	return uc
}

func (uc *InventoryUseCase) retry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}
	return uc.retrier.Retry(ctx, operation)
}

// InitializeInput represents input for initializing inventory.
type InitializeInput struct {
	StoreID   string
	ProductID string
	Quantity  int64
	UnitCost  decimal.Decimal
}

// Initialize creates the balance record for a (store, product) pair. A
// positive starting quantity is recorded as a purchase movement.
func (uc *InventoryUseCase) Initialize(ctx context.Context, input InitializeInput) (*domain.Inventory, error) {
	if err := uc.checkStoreAndProduct(ctx, input.StoreID, input.ProductID); err != nil {
		return nil, err
	}

	if err := domain.ValidateInitialQuantity(input.Quantity); err != nil {
		return nil, err
	}

	if err := domain.ValidateUnitCost(input.UnitCost); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	_, err = uc.inventoryRepo.GetForUpdate(txCtx, tx, input.StoreID, input.ProductID)
	if err == nil {
		return nil, domain.ErrInventoryAlreadyExists
	}

	if !errors.Is(err, domain.ErrInventoryNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	notes := "Initial inventory"

	inventory, err := uc.createBalance(txCtx, tx, input.StoreID, input.ProductID, input.Quantity, input.UnitCost, domain.MovementPurchase, &notes, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil && input.Quantity > 0 {
		uc.metrics.MovementsRecorded.WithLabelValues(string(domain.MovementPurchase)).Inc()
	}

	return inventory, nil
}

// PurchaseInput represents input for recording a purchase.
type PurchaseInput struct {
	StoreID   string
	ProductID string
	Quantity  int64
	UnitCost  decimal.Decimal
	Notes     *string
}

// Purchase records received stock, blending the balance's unit cost by
// weighted average. The movement is recorded at the incoming unit cost, not
// the blended one. A missing balance is initialized instead.
func (uc *InventoryUseCase) Purchase(ctx context.Context, input PurchaseInput) (*domain.Inventory, error) {
	if err := domain.ValidateQuantity(input.Quantity); err != nil {
		return nil, err
	}

	if err := domain.ValidateUnitCost(input.UnitCost); err != nil {
		return nil, err
	}

	if err := domain.ValidateNotes(input.Notes); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()

	inventory, err := uc.inventoryRepo.GetForUpdate(txCtx, tx, input.StoreID, input.ProductID)
	switch {
	case errors.Is(err, domain.ErrInventoryNotFound):
		// First purchase for the pair behaves as initialization.
		if err := uc.checkStoreAndProduct(ctx, input.StoreID, input.ProductID); err != nil {
			return nil, err
		}

		notes := input.Notes
		if notes == nil {
			initial := "Initial inventory"
			notes = &initial
		}

		inventory, err = uc.createBalance(txCtx, tx, input.StoreID, input.ProductID, input.Quantity, input.UnitCost, domain.MovementPurchase, notes, now)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		newQuantity, newUnitCost, newTotalCost := inventory.ApplyPurchase(input.Quantity, input.UnitCost)

		err = uc.inventoryRepo.UpdateBalance(txCtx, tx, inventory.ID, newQuantity, newUnitCost, newTotalCost, now)
		if err != nil {
			return nil, err
		}

		err = uc.appendMovement(txCtx, tx, input.StoreID, input.ProductID, input.Quantity, input.UnitCost, domain.MovementPurchase, nil, input.Notes, now)
		if err != nil {
			return nil, err
		}

		inventory.QuantityBalance = newQuantity
		inventory.UnitCost = newUnitCost
		inventory.TotalCost = newTotalCost
		inventory.UpdatedAt = now
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.MovementsRecorded.WithLabelValues(string(domain.MovementPurchase)).Inc()
	}

	return inventory, nil
}

// SaleInput represents input for recording a sale.
type SaleInput struct {
	StoreID     string
	ProductID   string
	Quantity    int64
	ReferenceID *string
	Notes       *string
}

// Sale removes sold stock from the balance. The weighted-average unit cost is
// unchanged; the movement is recorded at the current balance unit cost.
func (uc *InventoryUseCase) Sale(ctx context.Context, input SaleInput) (*domain.Inventory, error) {
	if err := domain.ValidateQuantity(input.Quantity); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	inventory, err := uc.saleTx(txCtx, tx, input, time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) && uc.metrics != nil {
			uc.metrics.StockRejections.Inc()
		}

		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.MovementsRecorded.WithLabelValues(string(domain.MovementSale)).Inc()
	}

	return inventory, nil
}

// AdjustmentInput represents input for a signed stock correction.
type AdjustmentInput struct {
	StoreID   string
	ProductID string
	Delta     int64
	Notes     *string
}

// Adjustment records a sign-agnostic correction (damage, theft, count fixes).
func (uc *InventoryUseCase) Adjustment(ctx context.Context, input AdjustmentInput) (*domain.Inventory, error) {
	if input.Delta == 0 {
		return nil, domain.ErrZeroAdjustment
	}

	if err := domain.ValidateNotes(input.Notes); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	inventory, err := uc.inventoryRepo.GetForUpdate(txCtx, tx, input.StoreID, input.ProductID)
	if err != nil {
		return nil, err
	}

	inventory, err = uc.adjustLocked(txCtx, tx, inventory, input.Delta, domain.MovementAdjustment, nil, input.Notes, time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) && uc.metrics != nil {
			uc.metrics.StockRejections.Inc()
		}

		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.MovementsRecorded.WithLabelValues(string(domain.MovementAdjustment)).Inc()
	}

	return inventory, nil
}

// ReturnInput represents input for recording a return.
type ReturnInput struct {
	StoreID     string
	ProductID   string
	Quantity    int64
	ReferenceID *string
	Notes       *string
}

// Return puts returned goods back at the current balance unit cost. The
// average is not re-blended.
func (uc *InventoryUseCase) Return(ctx context.Context, input ReturnInput) (*domain.Inventory, error) {
	if err := domain.ValidateQuantity(input.Quantity); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	inventory, err := uc.returnTx(txCtx, tx, input, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.MovementsRecorded.WithLabelValues(string(domain.MovementReturn)).Inc()
	}

	return inventory, nil
}

// TransferInput represents input for a transfer between stores.
type TransferInput struct {
	FromStoreID string
	ToStoreID   string
	ProductID   string
	Quantity    int64
	Notes       *string
}

// Transfer moves stock between two stores atomically: either both sides apply
// or neither does. Each side produces one transfer movement. A destination
// with no balance is seeded at the source's unit cost.
func (uc *InventoryUseCase) Transfer(ctx context.Context, input TransferInput) (*domain.Inventory, *domain.Inventory, error) {
	if input.FromStoreID == input.ToStoreID {
		return nil, nil, domain.ErrSameStore
	}

	if err := domain.ValidateQuantity(input.Quantity); err != nil {
		return nil, nil, err
	}

	if err := domain.ValidateNotes(input.Notes); err != nil {
		return nil, nil, err
	}

	var source, destination *domain.Inventory
	err := uc.retry(ctx, func() error {
		var err error
		source, destination, err = uc.transferTx(ctx, input)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) && uc.metrics != nil {
			uc.metrics.StockRejections.Inc()
		}

		return nil, nil, err
	}

	if uc.metrics != nil {
		uc.metrics.MovementsRecorded.WithLabelValues(string(domain.MovementTransfer)).Add(2)
	}

	return source, destination, nil
}

func (uc *InventoryUseCase) transferTx(ctx context.Context, input TransferInput) (*domain.Inventory, *domain.Inventory, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Lock both balance rows in sorted store order (DEADLOCK PREVENTION)
	storeIDs := []string{input.FromStoreID, input.ToStoreID}
	sort.Strings(storeIDs)

	locked := make(map[string]*domain.Inventory, 2)
	for _, storeID := range storeIDs {
		inventory, err := uc.inventoryRepo.GetForUpdate(txCtx, tx, storeID, input.ProductID)
		if err != nil && !errors.Is(err, domain.ErrInventoryNotFound) {
			return nil, nil, err
		}

		locked[storeID] = inventory
	}

	source := locked[input.FromStoreID]
	if source == nil {
		return nil, nil, domain.ErrInventoryNotFound
	}

	now := time.Now().UTC()
	unitCost := source.UnitCost

	fromNotes := transferNotes("Transfer to store "+input.ToStoreID, input.Notes)

	source, err = uc.adjustLocked(txCtx, tx, source, -input.Quantity, domain.MovementTransfer, nil, &fromNotes, now)
	if err != nil {
		return nil, nil, err
	}

	toNotes := transferNotes("Transfer from store "+input.FromStoreID, input.Notes)

	destination := locked[input.ToStoreID]
	if destination == nil {
		destination, err = uc.createBalance(txCtx, tx, input.ToStoreID, input.ProductID, input.Quantity, unitCost, domain.MovementTransfer, &toNotes, now)
	} else {
		destination, err = uc.adjustLocked(txCtx, tx, destination, input.Quantity, domain.MovementTransfer, nil, &toNotes, now)
	}

	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, nil, err
	}

	return source, destination, nil
}

// GetBalance retrieves the balance for a (store, product) pair.
func (uc *InventoryUseCase) GetBalance(ctx context.Context, storeID, productID string) (*domain.Inventory, error) {
	return uc.inventoryRepo.GetByStoreAndProduct(ctx, storeID, productID)
}

// ListByStore lists balances for a store.
func (uc *InventoryUseCase) ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*domain.Inventory, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.inventoryRepo.ListByStore(ctx, storeID, limit, offset)
}

// ListByProduct lists a product's balances across all stores.
func (uc *InventoryUseCase) ListByProduct(ctx context.Context, productID string) ([]*domain.Inventory, error) {
	return uc.inventoryRepo.ListByProduct(ctx, productID)
}

// LowStockInput represents input for low-stock listings.
type LowStockInput struct {
	Threshold int64
	StoreID   string
	Limit     int
	Offset    int
}

// LowStock lists balances at or below the threshold quantity.
func (uc *InventoryUseCase) LowStock(ctx context.Context, input LowStockInput) ([]*domain.Inventory, error) {
	if input.Threshold < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.inventoryRepo.ListLowStock(ctx, input.Threshold, input.StoreID, limit, offset)
}

// OutOfStock lists balances with zero quantity.
func (uc *InventoryUseCase) OutOfStock(ctx context.Context, storeID string, limit, offset int) ([]*domain.Inventory, error) {
	return uc.LowStock(ctx, LowStockInput{Threshold: 0, StoreID: storeID, Limit: limit, Offset: offset})
}

// TotalValue sums total cost across balances, optionally for one store.
func (uc *InventoryUseCase) TotalValue(ctx context.Context, storeID string) (decimal.Decimal, error) {
	return uc.inventoryRepo.TotalValue(ctx, storeID)
}

// MovementHistory lists movements matching the filter.
func (uc *InventoryUseCase) MovementHistory(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)

	return uc.movementRepo.List(ctx, filter)
}

// ReconciliationResult reports whether a balance matches its movement log.
type ReconciliationResult struct {
	StoreID          string
	ProductID        string
	RecordedQuantity int64
	MovementQuantity int64
	Consistent       bool
	CheckedAt        time.Time
}

// Reconcile verifies the reconstruction invariant for one pair: the recorded
// balance must equal the running sum of its movements' quantity changes.
func (uc *InventoryUseCase) Reconcile(ctx context.Context, storeID, productID string) (*ReconciliationResult, error) {
	inventory, err := uc.inventoryRepo.GetByStoreAndProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	sum, err := uc.movementRepo.SumQuantityChanges(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	return &ReconciliationResult{
		StoreID:          storeID,
		ProductID:        productID,
		RecordedQuantity: inventory.QuantityBalance,
		MovementQuantity: sum,
		Consistent:       inventory.QuantityBalance == sum,
		CheckedAt:        time.Now().UTC(),
	}, nil
}

// saleTx applies a sale inside the caller's transaction. Order completion
// calls this once per line item so that all sales and the status flip share
// one unit of work.
func (uc *InventoryUseCase) saleTx(ctx context.Context, tx Transaction, input SaleInput, now time.Time) (*domain.Inventory, error) {
	inventory, err := uc.inventoryRepo.GetForUpdate(ctx, tx, input.StoreID, input.ProductID)
	if err != nil {
		return nil, err
	}

	if err := inventory.ValidateSale(input.Quantity); err != nil {
		return nil, fmt.Errorf("%w: available %d, requested %d", err, inventory.QuantityBalance, input.Quantity)
	}

	return uc.adjustLocked(ctx, tx, inventory, -input.Quantity, domain.MovementSale, input.ReferenceID, input.Notes, now)
}

// returnTx applies a return inside the caller's transaction.
func (uc *InventoryUseCase) returnTx(ctx context.Context, tx Transaction, input ReturnInput, now time.Time) (*domain.Inventory, error) {
	inventory, err := uc.inventoryRepo.GetForUpdate(ctx, tx, input.StoreID, input.ProductID)
	if err != nil {
		return nil, err
	}

	return uc.adjustLocked(ctx, tx, inventory, input.Quantity, domain.MovementReturn, input.ReferenceID, input.Notes, now)
}

// adjustLocked applies a signed quantity change to an already-locked balance
// row and appends the matching movement. Unit cost is held constant.
func (uc *InventoryUseCase) adjustLocked(
	ctx context.Context,
	tx Transaction,
	inventory *domain.Inventory,
	delta int64,
	movementType domain.MovementType,
	referenceID, notes *string,
	now time.Time,
) (*domain.Inventory, error) {
	if err := inventory.ValidateAdjustment(delta); err != nil {
		return nil, fmt.Errorf("%w: current %d, change %d", err, inventory.QuantityBalance, delta)
	}

	newQuantity, newTotalCost := inventory.ApplyAdjustment(delta)

	err := uc.inventoryRepo.UpdateBalance(ctx, tx, inventory.ID, newQuantity, inventory.UnitCost, newTotalCost, now)
	if err != nil {
		return nil, err
	}

	err = uc.appendMovement(ctx, tx, inventory.StoreID, inventory.ProductID, delta, inventory.UnitCost, movementType, referenceID, notes, now)
	if err != nil {
		return nil, err
	}

	inventory.QuantityBalance = newQuantity
	inventory.TotalCost = newTotalCost
	inventory.UpdatedAt = now

	return inventory, nil
}

// createBalance creates a balance row inside the caller's transaction,
// appending the seeding movement when quantity is positive.
func (uc *InventoryUseCase) createBalance(
	ctx context.Context,
	tx Transaction,
	storeID, productID string,
	quantity int64,
	unitCost decimal.Decimal,
	movementType domain.MovementType,
	notes *string,
	now time.Time,
) (*domain.Inventory, error) {
	inventory := &domain.Inventory{
		ID:              uc.idGen.Generate(),
		StoreID:         storeID,
		ProductID:       productID,
		QuantityBalance: quantity,
		UnitCost:        unitCost,
		TotalCost:       unitCost.Mul(decimal.NewFromInt(quantity)),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.inventoryRepo.Create(ctx, tx, inventory); err != nil {
		return nil, err
	}

	if quantity > 0 {
		if err := uc.appendMovement(ctx, tx, storeID, productID, quantity, unitCost, movementType, nil, notes, now); err != nil {
			return nil, err
		}
	}

	return inventory, nil
}

// appendMovement appends one audit record inside the caller's transaction.
func (uc *InventoryUseCase) appendMovement(
	ctx context.Context,
	tx Transaction,
	storeID, productID string,
	quantityChange int64,
	unitCost decimal.Decimal,
	movementType domain.MovementType,
	referenceID, notes *string,
	now time.Time,
) error {
	movement := &domain.Movement{
		ID:             uc.idGen.Generate(),
		StoreID:        storeID,
		ProductID:      productID,
		QuantityChange: quantityChange,
		UnitCost:       unitCost,
		Type:           movementType,
		ReferenceID:    referenceID,
		Notes:          notes,
		CreatedAt:      now,
	}

	if err := movement.Validate(); err != nil {
		return err
	}

	return uc.movementRepo.Create(ctx, tx, movement)
}

func (uc *InventoryUseCase) checkStoreAndProduct(ctx context.Context, storeID, productID string) error {
	exists, err := uc.directory.StoreExists(ctx, storeID)
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrStoreNotFound, storeID)
	}

	exists, err = uc.catalog.ProductExists(ctx, productID)
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
	}

	return nil
}

func transferNotes(prefix string, notes *string) string {
	if notes == nil || *notes == "" {
		return prefix
	}

	return prefix + ": " + *notes
}
