package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/stockledger/internal/adapter/http/dto"
	"github.com/iho/stockledger/internal/domain"
	"github.com/iho/stockledger/internal/usecase"
)

type orderServiceStub struct {
	createFn   func(ctx context.Context, input usecase.CreateOrderInput) (*domain.Order, error)
	completeFn func(ctx context.Context, orderID string) (*domain.Order, error)
	cancelFn   func(ctx context.Context, orderID string, reason *string) (*domain.Order, error)
	refundFn   func(ctx context.Context, input usecase.RefundInput) (*domain.Order, error)
	getFn      func(ctx context.Context, id string) (*domain.Order, error)
	getItemsFn func(ctx context.Context, orderID string) ([]*domain.OrderItem, error)
	listFn     func(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)
}

func (s *orderServiceStub) Create(ctx context.Context, input usecase.CreateOrderInput) (*domain.Order, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return &domain.Order{}, nil
}

func (s *orderServiceStub) Complete(ctx context.Context, orderID string) (*domain.Order, error) {
	if s.completeFn != nil {
		return s.completeFn(ctx, orderID)
	}
	return &domain.Order{}, nil
}

func (s *orderServiceStub) Cancel(ctx context.Context, orderID string, reason *string) (*domain.Order, error) {
	if s.cancelFn != nil {
		return s.cancelFn(ctx, orderID, reason)
	}
	return &domain.Order{}, nil
}

func (s *orderServiceStub) Refund(ctx context.Context, input usecase.RefundInput) (*domain.Order, error) {
	if s.refundFn != nil {
		return s.refundFn(ctx, input)
	}
	return &domain.Order{}, nil
}

func (s *orderServiceStub) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return &domain.Order{}, nil
}

func (s *orderServiceStub) GetOrderItems(ctx context.Context, orderID string) ([]*domain.OrderItem, error) {
	if s.getItemsFn != nil {
		return s.getItemsFn(ctx, orderID)
	}
	return []*domain.OrderItem{}, nil
}

func (s *orderServiceStub) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filter)
	}
	return []*domain.Order{}, nil
}

func TestOrderHandler_Create_Success(t *testing.T) {
	order := &domain.Order{
		ID:          "order-1",
		StoreID:     testStoreID,
		EmployeeID:  testEmployeeID,
		TotalAmount: decimal.RequireFromString("24.48"),
		Status:      domain.OrderStatusPending,
	}

	var captured usecase.CreateOrderInput
	h := NewOrderHandler(&orderServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateOrderInput) (*domain.Order, error) {
			captured = input
			return order, nil
		},
	})

	body, _ := json.Marshal(dto.CreateOrderRequest{
		StoreID:    testStoreID,
		EmployeeID: testEmployeeID,
		Items: []dto.OrderItemRequest{
			{ProductID: testProductID, Quantity: 2},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.StoreID != testStoreID || len(captured.Items) != 1 || captured.Items[0].Quantity != 2 {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.OrderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "order-1" || resp.Status != "pending" {
		t.Fatalf("expected pending order in response, got %+v", resp)
	}
}

func TestOrderHandler_Create_InvalidJSON(t *testing.T) {
	h := NewOrderHandler(&orderServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateOrderInput) (*domain.Order, error) {
			t.Fatal("Create should not be called for invalid payload")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestOrderHandler_Create_EmptyOrder(t *testing.T) {
	h := NewOrderHandler(&orderServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateOrderInput) (*domain.Order, error) {
			return nil, domain.ErrEmptyOrder
		},
	})

	body, _ := json.Marshal(dto.CreateOrderRequest{StoreID: testStoreID, EmployeeID: testEmployeeID})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestOrderHandler_Get(t *testing.T) {
	h := NewOrderHandler(&orderServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Order, error) {
			if id != "order-1" {
				t.Fatalf("expected id order-1, got %s", id)
			}
			return &domain.Order{ID: id}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/order-1", nil)
	req = setChiURLParams(req, map[string]string{"id": "order-1"})
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestOrderHandler_Get_NotFound(t *testing.T) {
	h := NewOrderHandler(&orderServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Order, error) {
			return nil, domain.ErrOrderNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/missing", nil)
	req = setChiURLParams(req, map[string]string{"id": "missing"})
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestOrderHandler_Complete_InvalidState(t *testing.T) {
	h := NewOrderHandler(&orderServiceStub{
		completeFn: func(ctx context.Context, orderID string) (*domain.Order, error) {
			return nil, domain.ErrInvalidOrderState
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/orders/order-1/complete", nil)
	req = setChiURLParams(req, map[string]string{"id": "order-1"})
	rec := httptest.NewRecorder()

	h.Complete(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestOrderHandler_Complete_InsufficientStock(t *testing.T) {
	h := NewOrderHandler(&orderServiceStub{
		completeFn: func(ctx context.Context, orderID string) (*domain.Order, error) {
			return nil, domain.ErrInsufficientStock
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/orders/order-1/complete", nil)
	req = setChiURLParams(req, map[string]string{"id": "order-1"})
	rec := httptest.NewRecorder()

	h.Complete(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestOrderHandler_Cancel_WithReason(t *testing.T) {
	var captured *string
	h := NewOrderHandler(&orderServiceStub{
		cancelFn: func(ctx context.Context, orderID string, reason *string) (*domain.Order, error) {
			captured = reason
			return &domain.Order{ID: orderID, Status: domain.OrderStatusCancelled}, nil
		},
	})

	reason := "customer changed mind"
	body, _ := json.Marshal(dto.CancelOrderRequest{Reason: &reason})
	req := httptest.NewRequest(http.MethodPost, "/orders/order-1/cancel", bytes.NewReader(body))
	req = setChiURLParams(req, map[string]string{"id": "order-1"})
	rec := httptest.NewRecorder()

	h.Cancel(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured == nil || *captured != reason {
		t.Fatalf("expected reason to propagate, got %v", captured)
	}
}

func TestOrderHandler_Cancel_EmptyBody(t *testing.T) {
	h := NewOrderHandler(&orderServiceStub{
		cancelFn: func(ctx context.Context, orderID string, reason *string) (*domain.Order, error) {
			if reason != nil {
				t.Fatalf("expected nil reason, got %v", *reason)
			}
			return &domain.Order{ID: orderID, Status: domain.OrderStatusCancelled}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/orders/order-1/cancel", nil)
	req = setChiURLParams(req, map[string]string{"id": "order-1"})
	rec := httptest.NewRecorder()

	h.Cancel(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty body, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestOrderHandler_Refund_RestoreFlag(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantRestore bool
	}{
		{"explicit true", `{"restore_inventory":true}`, true},
		{"explicit false", `{"restore_inventory":false}`, false},
		{"omitted field defaults to restore", `{}`, true},
		{"empty body defaults to restore", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured usecase.RefundInput
			h := NewOrderHandler(&orderServiceStub{
				refundFn: func(ctx context.Context, input usecase.RefundInput) (*domain.Order, error) {
					captured = input
					return &domain.Order{ID: input.OrderID, Status: domain.OrderStatusRefunded}, nil
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/orders/order-1/refund", bytes.NewReader([]byte(tt.body)))
			req = setChiURLParams(req, map[string]string{"id": "order-1"})
			rec := httptest.NewRecorder()

			h.Refund(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if captured.OrderID != "order-1" || captured.RestoreInventory != tt.wantRestore {
				t.Fatalf("expected restore=%v, got %+v", tt.wantRestore, captured)
			}
		})
	}
}

func TestOrderHandler_List_PassesFilter(t *testing.T) {
	h := NewOrderHandler(&orderServiceStub{
		listFn: func(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
			if filter.StoreID != "store-1" || filter.Status != domain.OrderStatusCompleted {
				t.Fatalf("unexpected filter %+v", filter)
			}
			return []*domain.Order{{ID: "order-1"}, {ID: "order-2"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/orders?store_id=store-1&status=completed", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListOrdersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(resp.Orders))
	}
}

func TestOrderHandler_GetItems(t *testing.T) {
	h := NewOrderHandler(&orderServiceStub{
		getItemsFn: func(ctx context.Context, orderID string) ([]*domain.OrderItem, error) {
			return []*domain.OrderItem{
				{ID: "item-1", OrderID: orderID, ProductID: "prod-1", Quantity: 2, Price: decimal.RequireFromString("9.99")},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/order-1/items", nil)
	req = setChiURLParams(req, map[string]string{"id": "order-1"})
	rec := httptest.NewRecorder()

	h.GetItems(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []dto.OrderItemResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || !resp[0].Subtotal.Equal(decimal.RequireFromString("19.98")) {
		t.Fatalf("expected subtotal 19.98, got %+v", resp)
	}
}
