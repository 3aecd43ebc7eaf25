// Package mocks provides hand-rolled in-memory mocks for the usecase
// interfaces. Mutating calls are staged on the transaction and only become
// visible on Commit, so tests can observe rollback semantics.
package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/stockledger/internal/domain"
	"github.com/iho/stockledger/internal/usecase"
)

// MockTx is an in-memory transaction. Writes staged against it apply on
// Commit and are dropped on Rollback.
type MockTx struct {
	mu         sync.Mutex
	onCommit   []func()
	Committed  bool
	RolledBack bool

	CommitFunc func(ctx context.Context) error
}

func (t *MockTx) stage(apply func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onCommit = append(t.onCommit, apply)
}

func (t *MockTx) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, apply := range t.onCommit {
		apply()
	}

	t.onCommit = nil
	t.Committed = true

	return nil
}

func (t *MockTx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.Committed {
		t.onCommit = nil
		t.RolledBack = true
	}

	return nil
}

// MockTxManager is a mock implementation of TransactionManager.
type MockTxManager struct {
	mu  sync.Mutex
	Txs []*MockTx

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

func (m *MockTxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &MockTx{}
	m.Txs = append(m.Txs, tx)

	return tx, nil
}

func asMockTx(tx usecase.Transaction) *MockTx {
	if tx == nil {
		return nil
	}

	mt, _ := tx.(*MockTx)

	return mt
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++

	return fmt.Sprintf("id-%03d", m.next)
}

func pairKey(storeID, productID string) string {
	return storeID + "/" + productID
}

// MockInventoryRepository is a mock implementation of InventoryRepository.
type MockInventoryRepository struct {
	mu    sync.RWMutex
	byKey map[string]*domain.Inventory
	byID  map[string]*domain.Inventory

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, inventory *domain.Inventory) error
	GetFunc           func(ctx context.Context, storeID, productID string) (*domain.Inventory, error)
	GetForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, storeID, productID string) (*domain.Inventory, error)
	UpdateBalanceFunc func(ctx context.Context, tx usecase.Transaction, id string, quantity int64, unitCost, totalCost decimal.Decimal, updatedAt time.Time) error
}

func NewMockInventoryRepository() *MockInventoryRepository {
	return &MockInventoryRepository{
		byKey: make(map[string]*domain.Inventory),
		byID:  make(map[string]*domain.Inventory),
	}
}

// Seed inserts a balance directly, bypassing transactions.
func (m *MockInventoryRepository) Seed(inventory *domain.Inventory) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *inventory
	m.byKey[pairKey(cp.StoreID, cp.ProductID)] = &cp
	m.byID[cp.ID] = &cp
}

func (m *MockInventoryRepository) Create(ctx context.Context, tx usecase.Transaction, inventory *domain.Inventory) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, inventory)
	}

	cp := *inventory
	apply := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.byKey[pairKey(cp.StoreID, cp.ProductID)] = &cp
		m.byID[cp.ID] = &cp
	}

	if mt := asMockTx(tx); mt != nil {
		mt.stage(apply)
	} else {
		apply()
	}

	return nil
}

func (m *MockInventoryRepository) GetByStoreAndProduct(ctx context.Context, storeID, productID string) (*domain.Inventory, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, storeID, productID)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if inv, ok := m.byKey[pairKey(storeID, productID)]; ok {
		cp := *inv
		return &cp, nil
	}

	return nil, domain.ErrInventoryNotFound
}

func (m *MockInventoryRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, storeID, productID string) (*domain.Inventory, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, tx, storeID, productID)
	}

	return m.GetByStoreAndProduct(ctx, storeID, productID)
}

func (m *MockInventoryRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, quantity int64, unitCost, totalCost decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, quantity, unitCost, totalCost, updatedAt)
	}

	apply := func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		if inv, ok := m.byID[id]; ok {
			inv.QuantityBalance = quantity
			inv.UnitCost = unitCost
			inv.TotalCost = totalCost
			inv.UpdatedAt = updatedAt
		}
	}

	if mt := asMockTx(tx); mt != nil {
		mt.stage(apply)
	} else {
		apply()
	}

	return nil
}

func (m *MockInventoryRepository) ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*domain.Inventory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.Inventory
	for _, inv := range m.byKey {
		if inv.StoreID == storeID {
			cp := *inv
			result = append(result, &cp)
		}
	}

	return result, nil
}

func (m *MockInventoryRepository) ListByProduct(ctx context.Context, productID string) ([]*domain.Inventory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.Inventory
	for _, inv := range m.byKey {
		if inv.ProductID == productID {
			cp := *inv
			result = append(result, &cp)
		}
	}

	return result, nil
}

func (m *MockInventoryRepository) ListLowStock(ctx context.Context, threshold int64, storeID string, limit, offset int) ([]*domain.Inventory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.Inventory
	for _, inv := range m.byKey {
		if inv.QuantityBalance > threshold {
			continue
		}

		if storeID != "" && inv.StoreID != storeID {
			continue
		}

		cp := *inv
		result = append(result, &cp)
	}

	return result, nil
}

func (m *MockInventoryRepository) TotalValue(ctx context.Context, storeID string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := decimal.Zero
	for _, inv := range m.byKey {
		if storeID != "" && inv.StoreID != storeID {
			continue
		}

		total = total.Add(inv.TotalCost)
	}

	return total, nil
}

// MockMovementRepository is a mock implementation of MovementRepository.
type MockMovementRepository struct {
	mu        sync.RWMutex
	Movements []*domain.Movement

	CreateFunc func(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error
}

func NewMockMovementRepository() *MockMovementRepository {
	return &MockMovementRepository{}
}

func (m *MockMovementRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, movement)
	}

	cp := *movement
	apply := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.Movements = append(m.Movements, &cp)
	}

	if mt := asMockTx(tx); mt != nil {
		mt.stage(apply)
	} else {
		apply()
	}

	return nil
}

func (m *MockMovementRepository) List(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.Movement
	for _, mv := range m.Movements {
		if filter.StoreID != "" && mv.StoreID != filter.StoreID {
			continue
		}

		if filter.ProductID != "" && mv.ProductID != filter.ProductID {
			continue
		}

		if filter.Type != "" && mv.Type != filter.Type {
			continue
		}

		if filter.ReferenceID != "" && (mv.ReferenceID == nil || *mv.ReferenceID != filter.ReferenceID) {
			continue
		}

		if filter.StartDate != nil && mv.CreatedAt.Before(*filter.StartDate) {
			continue
		}

		if filter.EndDate != nil && mv.CreatedAt.After(*filter.EndDate) {
			continue
		}

		cp := *mv
		result = append(result, &cp)
	}

	return result, nil
}

func (m *MockMovementRepository) SumQuantityChanges(ctx context.Context, storeID, productID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sum int64
	for _, mv := range m.Movements {
		if mv.StoreID == storeID && mv.ProductID == productID {
			sum += mv.QuantityChange
		}
	}

	return sum, nil
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
	items  map[string][]*domain.OrderItem

	CreateFunc       func(ctx context.Context, tx usecase.Transaction, order *domain.Order, items []*domain.OrderItem) error
	UpdateStatusFunc func(ctx context.Context, tx usecase.Transaction, id string, status domain.OrderStatus, reason *string, updatedAt time.Time) error
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.Order),
		items:  make(map[string][]*domain.OrderItem),
	}
}

// Seed inserts an order directly, bypassing transactions.
func (m *MockOrderRepository) Seed(order *domain.Order, items []*domain.OrderItem) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *order
	m.orders[cp.ID] = &cp

	for _, it := range items {
		icp := *it
		m.items[cp.ID] = append(m.items[cp.ID], &icp)
	}
}

func (m *MockOrderRepository) Create(ctx context.Context, tx usecase.Transaction, order *domain.Order, items []*domain.OrderItem) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, order, items)
	}

	cp := *order
	itemCopies := make([]*domain.OrderItem, 0, len(items))
	for _, it := range items {
		icp := *it
		itemCopies = append(itemCopies, &icp)
	}

	apply := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.orders[cp.ID] = &cp
		m.items[cp.ID] = itemCopies
	}

	if mt := asMockTx(tx); mt != nil {
		mt.stage(apply)
	} else {
		apply()
	}

	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if o, ok := m.orders[id]; ok {
		cp := *o
		return &cp, nil
	}

	return nil, domain.ErrOrderNotFound
}

func (m *MockOrderRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Order, error) {
	return m.GetByID(ctx, id)
}

func (m *MockOrderRepository) GetItems(ctx context.Context, orderID string) ([]*domain.OrderItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]*domain.OrderItem, 0, len(m.items[orderID]))
	for _, it := range m.items[orderID] {
		cp := *it
		items = append(items, &cp)
	}

	return items, nil
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.OrderStatus, reason *string, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, reason, updatedAt)
	}

	apply := func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		if o, ok := m.orders[id]; ok {
			o.Status = status
			o.UpdatedAt = updatedAt
			if reason != nil {
				o.CancelReason = reason
			}
		}
	}

	if mt := asMockTx(tx); mt != nil {
		mt.stage(apply)
	} else {
		apply()
	}

	return nil
}

func (m *MockOrderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.Order
	for _, o := range m.orders {
		if filter.StoreID != "" && o.StoreID != filter.StoreID {
			continue
		}

		if filter.CustomerID != "" && (o.CustomerID == nil || *o.CustomerID != filter.CustomerID) {
			continue
		}

		if filter.EmployeeID != "" && o.EmployeeID != filter.EmployeeID {
			continue
		}

		if filter.Status != "" && o.Status != filter.Status {
			continue
		}

		if filter.StartDate != nil && o.CreatedAt.Before(*filter.StartDate) {
			continue
		}

		if filter.EndDate != nil && o.CreatedAt.After(*filter.EndDate) {
			continue
		}

		cp := *o
		result = append(result, &cp)
	}

	return result, nil
}

func (m *MockOrderRepository) TotalSales(ctx context.Context, storeID string, startDate, endDate *time.Time) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := decimal.Zero
	for _, o := range m.orders {
		if o.Status != domain.OrderStatusCompleted {
			continue
		}

		if storeID != "" && o.StoreID != storeID {
			continue
		}

		if startDate != nil && o.CreatedAt.Before(*startDate) {
			continue
		}

		if endDate != nil && o.CreatedAt.After(*endDate) {
			continue
		}

		total = total.Add(o.TotalAmount)
	}

	return total, nil
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, status domain.OrderStatus, storeID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, o := range m.orders {
		if o.Status != status {
			continue
		}

		if storeID != "" && o.StoreID != storeID {
			continue
		}

		count++
	}

	return count, nil
}

func (m *MockOrderRepository) ProductSales(ctx context.Context, productID string, startDate, endDate *time.Time) (int64, decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var quantity int64
	revenue := decimal.Zero

	for orderID, items := range m.items {
		order, ok := m.orders[orderID]
		if !ok || order.Status != domain.OrderStatusCompleted {
			continue
		}

		if startDate != nil && order.CreatedAt.Before(*startDate) {
			continue
		}

		if endDate != nil && order.CreatedAt.After(*endDate) {
			continue
		}

		for _, it := range items {
			if it.ProductID != productID {
				continue
			}

			quantity += it.Quantity
			revenue = revenue.Add(it.Subtotal())
		}
	}

	return quantity, revenue, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	Events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}

	cp := *event
	apply := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.Events = append(m.Events, &cp)
	}

	if mt := asMockTx(tx); mt != nil {
		mt.stage(apply)
	} else {
		apply()
	}

	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.OutboxEvent
	for _, ev := range m.Events {
		if ev.Published {
			continue
		}

		cp := *ev
		result = append(result, &cp)

		if limit > 0 && len(result) == limit {
			break
		}
	}

	return result, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ev := range m.Events {
		if ev.ID == id {
			ev.Published = true
			ev.PublishedAt = &publishedAt
		}
	}

	return nil
}

// MockCatalog is a mock implementation of Catalog.
type MockCatalog struct {
	mu       sync.RWMutex
	products map[string]bool
	prices   map[string]*domain.ProductPrice

	ProductExistsFunc func(ctx context.Context, id string) (bool, error)
	CurrentPriceFunc  func(ctx context.Context, productID string) (*domain.ProductPrice, error)
}

func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		products: make(map[string]bool),
		prices:   make(map[string]*domain.ProductPrice),
	}
}

// AddProduct registers a product, optionally with a current price.
func (m *MockCatalog) AddProduct(id string, price *domain.ProductPrice) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.products[id] = true
	if price != nil {
		m.prices[id] = price
	}
}

func (m *MockCatalog) ProductExists(ctx context.Context, id string) (bool, error) {
	if m.ProductExistsFunc != nil {
		return m.ProductExistsFunc(ctx, id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.products[id], nil
}

func (m *MockCatalog) CurrentPrice(ctx context.Context, productID string) (*domain.ProductPrice, error) {
	if m.CurrentPriceFunc != nil {
		return m.CurrentPriceFunc(ctx, productID)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if p, ok := m.prices[productID]; ok {
		cp := *p
		return &cp, nil
	}

	return nil, domain.ErrNoCurrentPrice
}

// MockDirectory is a mock implementation of Directory.
type MockDirectory struct {
	mu        sync.RWMutex
	stores    map[string]bool
	employees map[string]bool
	customers map[string]bool

	StoreExistsFunc    func(ctx context.Context, id string) (bool, error)
	EmployeeExistsFunc func(ctx context.Context, id string) (bool, error)
	CustomerExistsFunc func(ctx context.Context, id string) (bool, error)
}

func NewMockDirectory() *MockDirectory {
	return &MockDirectory{
		stores:    make(map[string]bool),
		employees: make(map[string]bool),
		customers: make(map[string]bool),
	}
}

func (m *MockDirectory) AddStore(id string) { m.mu.Lock(); defer m.mu.Unlock(); m.stores[id] = true }
func (m *MockDirectory) AddEmployee(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[id] = true
}
func (m *MockDirectory) AddCustomer(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[id] = true
}

func (m *MockDirectory) StoreExists(ctx context.Context, id string) (bool, error) {
	if m.StoreExistsFunc != nil {
		return m.StoreExistsFunc(ctx, id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.stores[id], nil
}

func (m *MockDirectory) EmployeeExists(ctx context.Context, id string) (bool, error) {
	if m.EmployeeExistsFunc != nil {
		return m.EmployeeExistsFunc(ctx, id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.employees[id], nil
}

func (m *MockDirectory) CustomerExists(ctx context.Context, id string) (bool, error) {
	if m.CustomerExistsFunc != nil {
		return m.CustomerExistsFunc(ctx, id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.customers[id], nil
}
