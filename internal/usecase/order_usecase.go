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

// OrderUseCase drives the order lifecycle. Transitions that touch the ledger
// (complete, refund) run their per-item ledger calls and the status flip in a
// single transaction, so a failing line leaves nothing applied.
type OrderUseCase struct {
	txManager TransactionManager
	orderRepo OrderRepository
	outbox    OutboxRepository
	inventory *InventoryUseCase
	catalog   Catalog
	directory Directory
	idGen     IDGenerator
	metrics   *metrics.Metrics
	retrier   Retrier
}

// NewOrderUseCase creates a new OrderUseCase.
func NewOrderUseCase(
	txManager TransactionManager,
	orderRepo OrderRepository,
	outbox OutboxRepository,
	inventory *InventoryUseCase,
	catalog Catalog,
	directory Directory,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *OrderUseCase {
	return &OrderUseCase{
		txManager: txManager,
		orderRepo: orderRepo,
		outbox:    outbox,
		inventory: inventory,
		catalog:   catalog,
		directory: directory,
		idGen:     idGen,
		metrics:   metrics,
	}
}

// WithRetrier makes ledger-touching transitions retry on transient database
// errors.
func (uc *OrderUseCase) WithRetrier(r Retrier) *OrderUseCase {
	uc.retrier = r
	return uc
}

func (uc *OrderUseCase) retry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}
	return uc.retrier.Retry(ctx, operation)
}

// emitEvent stages an order lifecycle event in the same transaction as the
// change it describes.
func (uc *OrderUseCase) emitEvent(ctx context.Context, tx Transaction, eventType string, order *domain.Order, now time.Time) error {
	if uc.outbox == nil {
		return nil
	}

	return uc.outbox.Create(ctx, tx, domain.NewOrderEvent(uc.idGen.Generate(), eventType, order, now))
}

// OrderItemInput is one requested line. A nil price means "resolve the
// product's current effective price from the catalog".
type OrderItemInput struct {
	ProductID string
	Quantity  int64
	Price     *decimal.Decimal
}

// CreateOrderInput represents input for creating an order.
type CreateOrderInput struct {
	StoreID    string
	EmployeeID string
	CustomerID *string
	Items      []OrderItemInput
}

// Create validates the request and persists the order in pending status with
// its items and exact total. The stock check here is advisory: nothing is
// reserved or decremented until completion.
func (uc *OrderUseCase) Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if err := uc.checkParties(ctx, input); err != nil {
		return nil, err
	}

	if len(input.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	now := time.Now().UTC()
	orderID := uc.idGen.Generate()

	items := make([]*domain.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		if err := domain.ValidateQuantity(item.Quantity); err != nil {
			return nil, fmt.Errorf("%w: product %s", err, item.ProductID)
		}

		exists, err := uc.catalog.ProductExists(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}

		if !exists {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, item.ProductID)
		}

		price, err := uc.resolvePrice(ctx, item)
		if err != nil {
			return nil, err
		}

		if err := uc.checkAvailability(ctx, input.StoreID, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}

		items = append(items, &domain.OrderItem{
			ID:        uc.idGen.Generate(),
			OrderID:   orderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     price,
			CreatedAt: now,
		})
	}

	// Total is computed before anything is persisted, so a failure here
	// cannot leave a partial order behind.
	order := &domain.Order{
		ID:          orderID,
		CustomerID:  input.CustomerID,
		StoreID:     input.StoreID,
		EmployeeID:  input.EmployeeID,
		TotalAmount: domain.OrderTotal(items),
		Status:      domain.OrderStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.orderRepo.Create(txCtx, tx, order, items); err != nil {
		return nil, err
	}

	if err := uc.emitEvent(txCtx, tx, domain.EventTypeOrderCreated, order, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.OrdersCreated.Inc()
		amount, _ := order.TotalAmount.Float64()
		uc.metrics.OrderAmount.Observe(amount)
	}

	return order, nil
}

// Complete flips a pending order to completed, recording a ledger sale per
// line item. Completion is all or nothing: if any line lacks stock, every
// sale from this attempt is discarded and the order stays pending.
func (uc *OrderUseCase) Complete(ctx context.Context, orderID string) (*domain.Order, error) {
	var order *domain.Order
	err := uc.retry(ctx, func() error {
		var err error
		order, err = uc.completeTx(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.OrdersCompleted.Inc()
	}

	return order, nil
}

func (uc *OrderUseCase) completeTx(ctx context.Context, orderID string) (*domain.Order, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	order, err := uc.orderRepo.GetByIDForUpdate(txCtx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.CanComplete(); err != nil {
		return nil, fmt.Errorf("%w: cannot complete order with status %q", err, order.Status)
	}

	items, err := uc.orderRepo.GetItems(txCtx, orderID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	notes := "Sale from order " + orderID

	for _, item := range sortedByProduct(items) {
		_, err := uc.inventory.saleTx(txCtx, tx, SaleInput{
			StoreID:     order.StoreID,
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			ReferenceID: &orderID,
			Notes:       &notes,
		}, now)
		if err != nil {
			return nil, err
		}
	}

	if err := uc.orderRepo.UpdateStatus(txCtx, tx, orderID, domain.OrderStatusCompleted, nil, now); err != nil {
		return nil, err
	}

	order.Status = domain.OrderStatusCompleted
	order.UpdatedAt = now

	if err := uc.emitEvent(txCtx, tx, domain.EventTypeOrderCompleted, order, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return order, nil
}

// Cancel moves a pending or completed order to cancelled. Cancelling a
// completed order does not reverse its ledger sales; reversing a historical
// sale requires an explicit refund.
func (uc *OrderUseCase) Cancel(ctx context.Context, orderID string, reason *string) (*domain.Order, error) {
	if err := domain.ValidateNotes(reason); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	order, err := uc.orderRepo.GetByIDForUpdate(txCtx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.CanCancel(); err != nil {
		return nil, fmt.Errorf("%w: cannot cancel order with status %q", err, order.Status)
	}

	now := time.Now().UTC()

	if err := uc.orderRepo.UpdateStatus(txCtx, tx, orderID, domain.OrderStatusCancelled, reason, now); err != nil {
		return nil, err
	}

	order.Status = domain.OrderStatusCancelled
	order.CancelReason = reason
	order.UpdatedAt = now

	if err := uc.emitEvent(txCtx, tx, domain.EventTypeOrderCancelled, order, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.OrdersCancelled.Inc()
	}

	return order, nil
}

// RefundInput represents input for refunding a completed order.
type RefundInput struct {
	OrderID          string
	RestoreInventory bool
}

// Refund moves a completed order to refunded, optionally returning every
// line's quantity to the ledger at the current balance unit cost.
func (uc *OrderUseCase) Refund(ctx context.Context, input RefundInput) (*domain.Order, error) {
	var order *domain.Order
	err := uc.retry(ctx, func() error {
		var err error
		order, err = uc.refundTx(ctx, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.OrdersRefunded.Inc()
	}

	return order, nil
}

func (uc *OrderUseCase) refundTx(ctx context.Context, input RefundInput) (*domain.Order, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	order, err := uc.orderRepo.GetByIDForUpdate(txCtx, tx, input.OrderID)
	if err != nil {
		return nil, err
	}

	if err := order.CanRefund(); err != nil {
		return nil, fmt.Errorf("%w: cannot refund order with status %q", err, order.Status)
	}

	now := time.Now().UTC()

	if input.RestoreInventory {
		items, err := uc.orderRepo.GetItems(txCtx, input.OrderID)
		if err != nil {
			return nil, err
		}

		notes := "Refund for order " + input.OrderID

		for _, item := range sortedByProduct(items) {
			_, err := uc.inventory.returnTx(txCtx, tx, ReturnInput{
				StoreID:     order.StoreID,
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				ReferenceID: &input.OrderID,
				Notes:       &notes,
			}, now)
			if err != nil {
				return nil, err
			}
		}
	}

	if err := uc.orderRepo.UpdateStatus(txCtx, tx, input.OrderID, domain.OrderStatusRefunded, nil, now); err != nil {
		return nil, err
	}

	order.Status = domain.OrderStatusRefunded
	order.UpdatedAt = now

	if err := uc.emitEvent(txCtx, tx, domain.EventTypeOrderRefunded, order, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrder retrieves an order by ID.
func (uc *OrderUseCase) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return uc.orderRepo.GetByID(ctx, id)
}

// GetOrderItems retrieves an order's line items.
func (uc *OrderUseCase) GetOrderItems(ctx context.Context, orderID string) ([]*domain.OrderItem, error) {
	if _, err := uc.orderRepo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}

	return uc.orderRepo.GetItems(ctx, orderID)
}

// ListOrders lists orders matching the filter.
func (uc *OrderUseCase) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStatus, filter.Status)
	}

	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)

	return uc.orderRepo.List(ctx, filter)
}

func (uc *OrderUseCase) checkParties(ctx context.Context, input CreateOrderInput) error {
	exists, err := uc.directory.StoreExists(ctx, input.StoreID)
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrStoreNotFound, input.StoreID)
	}

	exists, err = uc.directory.EmployeeExists(ctx, input.EmployeeID)
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrEmployeeNotFound, input.EmployeeID)
	}

	if input.CustomerID != nil {
		exists, err = uc.directory.CustomerExists(ctx, *input.CustomerID)
		if err != nil {
			return err
		}

		if !exists {
			return fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, *input.CustomerID)
		}
	}

	return nil
}

func (uc *OrderUseCase) resolvePrice(ctx context.Context, item OrderItemInput) (decimal.Decimal, error) {
	if item.Price != nil {
		if err := domain.ValidatePrice(*item.Price); err != nil {
			return decimal.Zero, fmt.Errorf("%w: product %s", err, item.ProductID)
		}

		return *item.Price, nil
	}

	price, err := uc.catalog.CurrentPrice(ctx, item.ProductID)
	if err != nil {
		return decimal.Zero, err
	}

	return price.Effective(), nil
}

func (uc *OrderUseCase) checkAvailability(ctx context.Context, storeID, productID string, quantity int64) error {
	balance, err := uc.inventory.GetBalance(ctx, storeID, productID)
	if err != nil {
		if errors.Is(err, domain.ErrInventoryNotFound) {
			return fmt.Errorf("%w: product %s not stocked at store %s", domain.ErrInsufficientStock, productID, storeID)
		}

		return err
	}

	if balance.QuantityBalance < quantity {
		return fmt.Errorf("%w: product %s available %d, requested %d", domain.ErrInsufficientStock, productID, balance.QuantityBalance, quantity)
	}

	return nil
}

// sortedByProduct returns items in product ID order so that multi-item
// completions lock balance rows in a fixed global order.
func sortedByProduct(items []*domain.OrderItem) []*domain.OrderItem {
	sorted := make([]*domain.OrderItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	return sorted
}
