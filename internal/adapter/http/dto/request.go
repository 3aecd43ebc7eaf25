package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/stockledger/internal/domain"
	"github.com/iho/stockledger/internal/usecase"
)

// InitializeInventoryRequest represents a request to initialize a balance.
type InitializeInventoryRequest struct {
	StoreID   string          `json:"store_id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// Validate checks the externally supplied entity ids.
func (r *InitializeInventoryRequest) Validate() error {
	return validateEntityIDs(r.StoreID, r.ProductID)
}

// ToUseCaseInput converts to use case input.
func (r *InitializeInventoryRequest) ToUseCaseInput() usecase.InitializeInput {
	return usecase.InitializeInput{
		StoreID:   r.StoreID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		UnitCost:  r.UnitCost,
	}
}

// PurchaseRequest represents a request to record received stock.
type PurchaseRequest struct {
	StoreID   string          `json:"store_id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Notes     *string         `json:"notes,omitempty"`
}

// Validate checks the externally supplied entity ids.
func (r *PurchaseRequest) Validate() error {
	return validateEntityIDs(r.StoreID, r.ProductID)
}

// ToUseCaseInput converts to use case input.
func (r *PurchaseRequest) ToUseCaseInput() usecase.PurchaseInput {
	return usecase.PurchaseInput{
		StoreID:   r.StoreID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		UnitCost:  r.UnitCost,
		Notes:     r.Notes,
	}
}

// SaleRequest represents a request to record a direct sale.
type SaleRequest struct {
	StoreID     string  `json:"store_id"`
	ProductID   string  `json:"product_id"`
	Quantity    int64   `json:"quantity"`
	ReferenceID *string `json:"reference_id,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// Validate checks the externally supplied entity ids.
func (r *SaleRequest) Validate() error {
	return validateEntityIDs(r.StoreID, r.ProductID)
}

// ToUseCaseInput converts to use case input.
func (r *SaleRequest) ToUseCaseInput() usecase.SaleInput {
	return usecase.SaleInput{
		StoreID:     r.StoreID,
		ProductID:   r.ProductID,
		Quantity:    r.Quantity,
		ReferenceID: r.ReferenceID,
		Notes:       r.Notes,
	}
}

// AdjustmentRequest represents a request to record a signed correction.
type AdjustmentRequest struct {
	StoreID   string  `json:"store_id"`
	ProductID string  `json:"product_id"`
	Delta     int64   `json:"delta"`
	Notes     *string `json:"notes,omitempty"`
}

// Validate checks the externally supplied entity ids.
func (r *AdjustmentRequest) Validate() error {
	return validateEntityIDs(r.StoreID, r.ProductID)
}

// ToUseCaseInput converts to use case input.
func (r *AdjustmentRequest) ToUseCaseInput() usecase.AdjustmentInput {
	return usecase.AdjustmentInput{
		StoreID:   r.StoreID,
		ProductID: r.ProductID,
		Delta:     r.Delta,
		Notes:     r.Notes,
	}
}

// ReturnRequest represents a request to record returned goods.
type ReturnRequest struct {
	StoreID     string  `json:"store_id"`
	ProductID   string  `json:"product_id"`
	Quantity    int64   `json:"quantity"`
	ReferenceID *string `json:"reference_id,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// Validate checks the externally supplied entity ids.
func (r *ReturnRequest) Validate() error {
	return validateEntityIDs(r.StoreID, r.ProductID)
}

// ToUseCaseInput converts to use case input.
func (r *ReturnRequest) ToUseCaseInput() usecase.ReturnInput {
	return usecase.ReturnInput{
		StoreID:     r.StoreID,
		ProductID:   r.ProductID,
		Quantity:    r.Quantity,
		ReferenceID: r.ReferenceID,
		Notes:       r.Notes,
	}
}

// TransferRequest represents a request to move stock between stores.
type TransferRequest struct {
	FromStoreID string  `json:"from_store_id"`
	ToStoreID   string  `json:"to_store_id"`
	ProductID   string  `json:"product_id"`
	Quantity    int64   `json:"quantity"`
	Notes       *string `json:"notes,omitempty"`
}

// Validate checks the externally supplied entity ids.
func (r *TransferRequest) Validate() error {
	return validateEntityIDs(r.FromStoreID, r.ToStoreID, r.ProductID)
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput() usecase.TransferInput {
	return usecase.TransferInput{
		FromStoreID: r.FromStoreID,
		ToStoreID:   r.ToStoreID,
		ProductID:   r.ProductID,
		Quantity:    r.Quantity,
		Notes:       r.Notes,
	}
}

// OrderItemRequest represents one requested order line.
type OrderItemRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  int64            `json:"quantity"`
	Price     *decimal.Decimal `json:"price,omitempty"`
}

// CreateOrderRequest represents a request to create an order.
type CreateOrderRequest struct {
	StoreID    string             `json:"store_id"`
	EmployeeID string             `json:"employee_id"`
	CustomerID *string            `json:"customer_id,omitempty"`
	Items      []OrderItemRequest `json:"items"`
}

// Validate checks the externally supplied entity ids, including one per line.
func (r *CreateOrderRequest) Validate() error {
	ids := []string{r.StoreID, r.EmployeeID}
	if r.CustomerID != nil {
		ids = append(ids, *r.CustomerID)
	}
	for _, item := range r.Items {
		ids = append(ids, item.ProductID)
	}
	return validateEntityIDs(ids...)
}

// ToUseCaseInput converts to use case input.
func (r *CreateOrderRequest) ToUseCaseInput() usecase.CreateOrderInput {
	items := make([]usecase.OrderItemInput, len(r.Items))
	for i, item := range r.Items {
		items[i] = usecase.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	return usecase.CreateOrderInput{
		StoreID:    r.StoreID,
		EmployeeID: r.EmployeeID,
		CustomerID: r.CustomerID,
		Items:      items,
	}
}

func validateEntityIDs(ids ...string) error {
	for _, id := range ids {
		if err := domain.ValidateEntityID(id); err != nil {
			return err
		}
	}
	return nil
}

// CancelOrderRequest represents a request to cancel an order.
type CancelOrderRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// RefundOrderRequest represents a request to refund a completed order.
// Restoring inventory is the default; callers opt out explicitly.
type RefundOrderRequest struct {
	RestoreInventory *bool `json:"restore_inventory,omitempty"`
}

// RestoreRequested reports whether the refund should return stock to the
// ledger. An omitted field means yes.
func (r *RefundOrderRequest) RestoreRequested() bool {
	if r.RestoreInventory == nil {
		return true
	}
	return *r.RestoreInventory
}
