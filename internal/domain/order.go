package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a sales order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusRefunded  OrderStatus = "refunded"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusRefunded, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusRefunded || s == OrderStatusCancelled
}

// Order is a sales order header. Orders are financial records and are never
// deleted; status moves only through the allowed transitions.
type Order struct {
	ID           string
	CustomerID   *string
	StoreID      string
	EmployeeID   string
	TotalAmount  decimal.Decimal
	Status       OrderStatus
	CancelReason *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanComplete reports whether the order may move to completed.
// Only pending orders complete.
func (o *Order) CanComplete() error {
	if o.Status != OrderStatusPending {
		return ErrInvalidOrderState
	}
	return nil
}

// CanCancel reports whether the order may move to cancelled. Cancelling a
// completed order does not reverse its ledger sales; that requires a refund.
func (o *Order) CanCancel() error {
	if o.Status.Terminal() {
		return ErrInvalidOrderState
	}
	return nil
}

// CanRefund reports whether the order may move to refunded.
// Only completed orders refund.
func (o *Order) CanRefund() error {
	if o.Status != OrderStatusCompleted {
		return ErrInvalidOrderState
	}
	return nil
}

// OrderFilter narrows order listing queries. Zero values mean "any".
type OrderFilter struct {
	StoreID    string
	CustomerID string
	EmployeeID string
	Status     OrderStatus
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}

// OrderItem is one line of an order. Price is captured at order-creation time
// and frozen; later catalog price changes never touch committed orders.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int64
	Price     decimal.Decimal
	CreatedAt time.Time
}

// Subtotal is price times quantity for this line.
func (it *OrderItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(it.Quantity))
}

// OrderTotal sums line subtotals exactly.
func OrderTotal(items []*OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}

	return total
}
