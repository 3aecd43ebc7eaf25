package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/stockledger/internal/adapter/http/dto"
	"github.com/iho/stockledger/internal/domain"
	"github.com/iho/stockledger/internal/usecase"
)

// OrderService defines the behavior needed by OrderHandler.
type OrderService interface {
	Create(ctx context.Context, input usecase.CreateOrderInput) (*domain.Order, error)
	Complete(ctx context.Context, orderID string) (*domain.Order, error)
	Cancel(ctx context.Context, orderID string, reason *string) (*domain.Order, error)
	Refund(ctx context.Context, input usecase.RefundInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	GetOrderItems(ctx context.Context, orderID string) ([]*domain.OrderItem, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)
}

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	orderUC OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderUC OrderService) *OrderHandler {
	return &OrderHandler{orderUC: orderUC}
}

// Create creates a new order in pending status.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, mapDomainError(err), "invalid entity id", err.Error())
		return
	}

	order, err := h.orderUC.Create(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create order", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.OrderFromDomain(order))
}

// Get retrieves an order by ID.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing order ID", "")
		return
	}

	order, err := h.orderUC.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get order", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.OrderFromDomain(order))
}

// GetItems retrieves the line items of an order.
func (h *OrderHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing order ID", "")
		return
	}

	items, err := h.orderUC.GetOrderItems(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get order items", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.OrderItemsFromDomain(items))
}

// List lists orders matching the query filters.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.OrderFilter{
		StoreID:    r.URL.Query().Get("store_id"),
		CustomerID: r.URL.Query().Get("customer_id"),
		EmployeeID: r.URL.Query().Get("employee_id"),
		Status:     domain.OrderStatus(r.URL.Query().Get("status")),
		StartDate:  parseTimeQuery(r, "start_date"),
		EndDate:    parseTimeQuery(r, "end_date"),
		Limit:      parseIntQuery(r, "limit", 20),
		Offset:     parseIntQuery(r, "offset", 0),
	}

	orders, err := h.orderUC.ListOrders(r.Context(), filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list orders", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListOrdersResponse{
		Orders: dto.OrdersFromDomain(orders),
		Total:  int64(len(orders)),
	})
}

// Complete transitions a pending order to completed and deducts stock.
func (h *OrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing order ID", "")
		return
	}

	order, err := h.orderUC.Complete(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to complete order", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.OrderFromDomain(order))
}

// Cancel transitions an order to cancelled. The body is optional.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing order ID", "")
		return
	}

	var req dto.CancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	order, err := h.orderUC.Cancel(r.Context(), id, req.Reason)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to cancel order", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.OrderFromDomain(order))
}

// Refund transitions a completed order to refunded, optionally restoring stock.
func (h *OrderHandler) Refund(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing order ID", "")
		return
	}

	var req dto.RefundOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	order, err := h.orderUC.Refund(r.Context(), usecase.RefundInput{
		OrderID:          id,
		RestoreInventory: req.RestoreRequested(),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to refund order", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.OrderFromDomain(order))
}
