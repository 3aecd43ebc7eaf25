package dto

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/stockledger/internal/domain"
)

func TestPurchaseRequest_ToUseCaseInput(t *testing.T) {
	notes := "restock"
	req := &PurchaseRequest{
		StoreID:   "store-1",
		ProductID: "prod-1",
		Quantity:  5,
		UnitCost:  decimal.RequireFromString("4.00"),
		Notes:     &notes,
	}

	got := req.ToUseCaseInput()

	if got.StoreID != "store-1" || got.ProductID != "prod-1" || got.Quantity != 5 {
		t.Fatalf("ToUseCaseInput() = %+v", got)
	}
	if !got.UnitCost.Equal(decimal.RequireFromString("4.00")) {
		t.Fatalf("expected unit cost 4.00, got %s", got.UnitCost)
	}
	if got.Notes == nil || *got.Notes != "restock" {
		t.Fatalf("expected notes to propagate, got %v", got.Notes)
	}
}

func TestSaleRequest_ToUseCaseInput(t *testing.T) {
	ref := "order-1"
	req := &SaleRequest{
		StoreID:     "store-1",
		ProductID:   "prod-1",
		Quantity:    3,
		ReferenceID: &ref,
	}

	got := req.ToUseCaseInput()

	if got.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", got.Quantity)
	}
	if got.ReferenceID == nil || *got.ReferenceID != "order-1" {
		t.Fatalf("expected reference to propagate, got %v", got.ReferenceID)
	}
	if got.Notes != nil {
		t.Fatalf("expected nil notes, got %v", got.Notes)
	}
}

func TestAdjustmentRequest_ToUseCaseInput_NegativeDelta(t *testing.T) {
	req := &AdjustmentRequest{
		StoreID:   "store-1",
		ProductID: "prod-1",
		Delta:     -2,
	}

	got := req.ToUseCaseInput()

	if got.Delta != -2 {
		t.Fatalf("expected delta -2, got %d", got.Delta)
	}
}

func TestTransferRequest_ToUseCaseInput(t *testing.T) {
	req := &TransferRequest{
		FromStoreID: "store-1",
		ToStoreID:   "store-2",
		ProductID:   "prod-1",
		Quantity:    6,
	}

	got := req.ToUseCaseInput()

	if got.FromStoreID != "store-1" || got.ToStoreID != "store-2" || got.Quantity != 6 {
		t.Fatalf("ToUseCaseInput() = %+v", got)
	}
}

func TestCreateOrderRequest_ToUseCaseInput(t *testing.T) {
	customer := "cust-1"
	price := decimal.RequireFromString("1.50")
	req := &CreateOrderRequest{
		StoreID:    "store-1",
		EmployeeID: "emp-1",
		CustomerID: &customer,
		Items: []OrderItemRequest{
			{ProductID: "prod-1", Quantity: 2},
			{ProductID: "prod-2", Quantity: 3, Price: &price},
		},
	}

	got := req.ToUseCaseInput()

	if got.StoreID != "store-1" || got.EmployeeID != "emp-1" {
		t.Fatalf("ToUseCaseInput() = %+v", got)
	}
	if got.CustomerID == nil || *got.CustomerID != "cust-1" {
		t.Fatalf("expected customer to propagate, got %v", got.CustomerID)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got.Items))
	}
	if got.Items[0].Price != nil {
		t.Fatalf("expected first item to use catalog price, got %v", got.Items[0].Price)
	}
	if got.Items[1].Price == nil || !got.Items[1].Price.Equal(price) {
		t.Fatalf("expected explicit price on second item, got %v", got.Items[1].Price)
	}
}

func TestRequestValidate(t *testing.T) {
	storeID := "0b9f3c1e-8a2d-4f6b-9c5e-1d7a2b3c4d5e"
	productID := "a1b2c3d4-e5f6-4789-a0b1-c2d3e4f5a6b7"

	tests := []struct {
		name    string
		req     interface{ Validate() error }
		wantErr error
	}{
		{
			name: "purchase with uuid ids",
			req:  &PurchaseRequest{StoreID: storeID, ProductID: productID},
		},
		{
			name:    "purchase with malformed store id",
			req:     &PurchaseRequest{StoreID: "store-1", ProductID: productID},
			wantErr: domain.ErrInvalidIDFormat,
		},
		{
			name:    "transfer with malformed destination",
			req:     &TransferRequest{FromStoreID: storeID, ToStoreID: "warehouse", ProductID: productID},
			wantErr: domain.ErrInvalidIDFormat,
		},
		{
			name: "order with malformed item product id",
			req: &CreateOrderRequest{
				StoreID:    storeID,
				EmployeeID: productID,
				Items:      []OrderItemRequest{{ProductID: "prod-1", Quantity: 1}},
			},
			wantErr: domain.ErrInvalidIDFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRefundOrderRequest_RestoreRequested(t *testing.T) {
	no := false
	yes := true

	if got := (&RefundOrderRequest{}).RestoreRequested(); !got {
		t.Fatal("expected omitted flag to default to restore")
	}
	if got := (&RefundOrderRequest{RestoreInventory: &no}).RestoreRequested(); got {
		t.Fatal("expected explicit false to skip restore")
	}
	if got := (&RefundOrderRequest{RestoreInventory: &yes}).RestoreRequested(); !got {
		t.Fatal("expected explicit true to restore")
	}
}

func TestCreateOrderRequest_ToUseCaseInput_NoItems(t *testing.T) {
	req := &CreateOrderRequest{StoreID: "store-1", EmployeeID: "emp-1"}

	got := req.ToUseCaseInput()

	if len(got.Items) != 0 {
		t.Fatalf("expected no items, got %d", len(got.Items))
	}
}
