package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/stockledger/internal/domain"
	"github.com/iho/stockledger/internal/usecase"
)

// InventoryResponse represents a stock balance in API responses.
type InventoryResponse struct {
	ID              string          `json:"id"`
	StoreID         string          `json:"store_id"`
	ProductID       string          `json:"product_id"`
	QuantityBalance int64           `json:"quantity_balance"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// InventoryFromDomain converts a domain balance to a response.
func InventoryFromDomain(i *domain.Inventory) *InventoryResponse {
	return &InventoryResponse{
		ID:              i.ID,
		StoreID:         i.StoreID,
		ProductID:       i.ProductID,
		QuantityBalance: i.QuantityBalance,
		UnitCost:        i.UnitCost,
		TotalCost:       i.TotalCost,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

// InventoriesFromDomain converts domain balances to responses.
func InventoriesFromDomain(inventories []*domain.Inventory) []*InventoryResponse {
	result := make([]*InventoryResponse, len(inventories))
	for i, inv := range inventories {
		result[i] = InventoryFromDomain(inv)
	}
	return result
}

// ListInventoryResponse wraps a list of balances.
type ListInventoryResponse struct {
	Items []*InventoryResponse `json:"items"`
	Total int64                `json:"total"`
}

// TransferResponse represents both sides of a completed transfer.
type TransferResponse struct {
	From *InventoryResponse `json:"from"`
	To   *InventoryResponse `json:"to"`
}

// MovementResponse represents a ledger movement in API responses.
type MovementResponse struct {
	ID             string          `json:"id"`
	StoreID        string          `json:"store_id"`
	ProductID      string          `json:"product_id"`
	QuantityChange int64           `json:"quantity_change"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	Type           string          `json:"type"`
	ReferenceID    *string         `json:"reference_id,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// MovementFromDomain converts a domain movement to a response.
func MovementFromDomain(m *domain.Movement) *MovementResponse {
	return &MovementResponse{
		ID:             m.ID,
		StoreID:        m.StoreID,
		ProductID:      m.ProductID,
		QuantityChange: m.QuantityChange,
		UnitCost:       m.UnitCost,
		Type:           string(m.Type),
		ReferenceID:    m.ReferenceID,
		Notes:          m.Notes,
		CreatedAt:      m.CreatedAt,
	}
}

// MovementsFromDomain converts domain movements to responses.
func MovementsFromDomain(movements []*domain.Movement) []*MovementResponse {
	result := make([]*MovementResponse, len(movements))
	for i, m := range movements {
		result[i] = MovementFromDomain(m)
	}
	return result
}

// ListMovementsResponse wraps a list of movements.
type ListMovementsResponse struct {
	Movements []*MovementResponse `json:"movements"`
	Total     int64               `json:"total"`
}

// ReconciliationResponse reports a balance check against the movement log.
type ReconciliationResponse struct {
	StoreID          string    `json:"store_id"`
	ProductID        string    `json:"product_id"`
	RecordedQuantity int64     `json:"recorded_quantity"`
	MovementQuantity int64     `json:"movement_quantity"`
	Consistent       bool      `json:"consistent"`
	CheckedAt        time.Time `json:"checked_at"`
}

// ReconciliationFromUseCase converts a reconciliation result to a response.
func ReconciliationFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		StoreID:          r.StoreID,
		ProductID:        r.ProductID,
		RecordedQuantity: r.RecordedQuantity,
		MovementQuantity: r.MovementQuantity,
		Consistent:       r.Consistent,
		CheckedAt:        r.CheckedAt,
	}
}

// OrderResponse represents an order in API responses.
type OrderResponse struct {
	ID           string          `json:"id"`
	CustomerID   *string         `json:"customer_id,omitempty"`
	StoreID      string          `json:"store_id"`
	EmployeeID   string          `json:"employee_id"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Status       string          `json:"status"`
	CancelReason *string         `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// OrderFromDomain converts a domain order to a response.
func OrderFromDomain(o *domain.Order) *OrderResponse {
	return &OrderResponse{
		ID:           o.ID,
		CustomerID:   o.CustomerID,
		StoreID:      o.StoreID,
		EmployeeID:   o.EmployeeID,
		TotalAmount:  o.TotalAmount,
		Status:       string(o.Status),
		CancelReason: o.CancelReason,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// OrdersFromDomain converts domain orders to responses.
func OrdersFromDomain(orders []*domain.Order) []*OrderResponse {
	result := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		result[i] = OrderFromDomain(o)
	}
	return result
}

// ListOrdersResponse wraps a list of orders.
type ListOrdersResponse struct {
	Orders []*OrderResponse `json:"orders"`
	Total  int64            `json:"total"`
}

// OrderItemResponse represents an order line in API responses.
type OrderItemResponse struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderItemsFromDomain converts domain order items to responses.
func OrderItemsFromDomain(items []*domain.OrderItem) []*OrderItemResponse {
	result := make([]*OrderItemResponse, len(items))
	for i, item := range items {
		result[i] = &OrderItemResponse{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Subtotal(),
			CreatedAt: item.CreatedAt,
		}
	}
	return result
}

// SalesStatisticsResponse summarizes completed-order sales.
type SalesStatisticsResponse struct {
	TotalSales  decimal.Decimal `json:"total_sales"`
	OrderCount  int64           `json:"order_count"`
	AverageSale decimal.Decimal `json:"average_sale"`
}

// ProductSalesResponse summarizes sales of one product.
type ProductSalesResponse struct {
	ProductID    string          `json:"product_id"`
	QuantitySold int64           `json:"quantity_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// ValueResponse wraps a single monetary amount.
type ValueResponse struct {
	Value decimal.Decimal `json:"value"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
