package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/stockledger/internal/adapter/http/dto"
	"github.com/iho/stockledger/internal/domain"
	"github.com/iho/stockledger/internal/usecase"
)

// InventoryService defines the behavior needed by InventoryHandler.
type InventoryService interface {
	Initialize(ctx context.Context, input usecase.InitializeInput) (*domain.Inventory, error)
	Purchase(ctx context.Context, input usecase.PurchaseInput) (*domain.Inventory, error)
	Sale(ctx context.Context, input usecase.SaleInput) (*domain.Inventory, error)
	Adjustment(ctx context.Context, input usecase.AdjustmentInput) (*domain.Inventory, error)
	Return(ctx context.Context, input usecase.ReturnInput) (*domain.Inventory, error)
	Transfer(ctx context.Context, input usecase.TransferInput) (*domain.Inventory, *domain.Inventory, error)
	GetBalance(ctx context.Context, storeID, productID string) (*domain.Inventory, error)
	ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*domain.Inventory, error)
	ListByProduct(ctx context.Context, productID string) ([]*domain.Inventory, error)
	LowStock(ctx context.Context, input usecase.LowStockInput) ([]*domain.Inventory, error)
	OutOfStock(ctx context.Context, storeID string, limit, offset int) ([]*domain.Inventory, error)
	TotalValue(ctx context.Context, storeID string) (decimal.Decimal, error)
	MovementHistory(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error)
	Reconcile(ctx context.Context, storeID, productID string) (*usecase.ReconciliationResult, error)
}

// InventoryHandler handles inventory-related HTTP requests.
type InventoryHandler struct {
	inventoryUC InventoryService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(inventoryUC InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryUC: inventoryUC}
}

// Initialize seeds a balance for a store and product pair.
func (h *InventoryHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	var req dto.InitializeInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, mapDomainError(err), "invalid entity id", err.Error())
		return
	}

	inventory, err := h.inventoryUC.Initialize(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to initialize inventory", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.InventoryFromDomain(inventory))
}

// Purchase records received stock.
func (h *InventoryHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req dto.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, mapDomainError(err), "invalid entity id", err.Error())
		return
	}

	inventory, err := h.inventoryUC.Purchase(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record purchase", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InventoryFromDomain(inventory))
}

// Sale records a direct sale outside the order flow.
func (h *InventoryHandler) Sale(w http.ResponseWriter, r *http.Request) {
	var req dto.SaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, mapDomainError(err), "invalid entity id", err.Error())
		return
	}

	inventory, err := h.inventoryUC.Sale(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record sale", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InventoryFromDomain(inventory))
}

// Adjustment records a signed stock correction.
func (h *InventoryHandler) Adjustment(w http.ResponseWriter, r *http.Request) {
	var req dto.AdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, mapDomainError(err), "invalid entity id", err.Error())
		return
	}

	inventory, err := h.inventoryUC.Adjustment(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record adjustment", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InventoryFromDomain(inventory))
}

// Return records returned goods.
func (h *InventoryHandler) Return(w http.ResponseWriter, r *http.Request) {
	var req dto.ReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, mapDomainError(err), "invalid entity id", err.Error())
		return
	}

	inventory, err := h.inventoryUC.Return(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record return", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InventoryFromDomain(inventory))
}

// Transfer moves stock between stores.
func (h *InventoryHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, mapDomainError(err), "invalid entity id", err.Error())
		return
	}

	from, to, err := h.inventoryUC.Transfer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to transfer stock", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferResponse{
		From: dto.InventoryFromDomain(from),
		To:   dto.InventoryFromDomain(to),
	})
}

// GetBalance retrieves one store and product balance.
func (h *InventoryHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")
	productID := chi.URLParam(r, "productID")

	inventory, err := h.inventoryUC.GetBalance(r.Context(), storeID, productID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get inventory", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InventoryFromDomain(inventory))
}

// ListByStore lists balances for one store.
func (h *InventoryHandler) ListByStore(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	inventories, err := h.inventoryUC.ListByStore(r.Context(), storeID, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list inventory", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListInventoryResponse{
		Items: dto.InventoriesFromDomain(inventories),
		Total: int64(len(inventories)),
	})
}

// ListByProduct lists balances of one product across stores.
func (h *InventoryHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	inventories, err := h.inventoryUC.ListByProduct(r.Context(), productID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list inventory", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListInventoryResponse{
		Items: dto.InventoriesFromDomain(inventories),
		Total: int64(len(inventories)),
	})
}

// LowStock lists balances at or below the threshold quantity.
func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	input := usecase.LowStockInput{
		Threshold: parseInt64Query(r, "threshold", 10),
		StoreID:   r.URL.Query().Get("store_id"),
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	}

	inventories, err := h.inventoryUC.LowStock(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list low stock", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListInventoryResponse{
		Items: dto.InventoriesFromDomain(inventories),
		Total: int64(len(inventories)),
	})
}

// OutOfStock lists balances with zero quantity.
func (h *InventoryHandler) OutOfStock(w http.ResponseWriter, r *http.Request) {
	storeID := r.URL.Query().Get("store_id")
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	inventories, err := h.inventoryUC.OutOfStock(r.Context(), storeID, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list out of stock", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListInventoryResponse{
		Items: dto.InventoriesFromDomain(inventories),
		Total: int64(len(inventories)),
	})
}

// TotalValue reports inventory value, optionally for one store.
func (h *InventoryHandler) TotalValue(w http.ResponseWriter, r *http.Request) {
	storeID := r.URL.Query().Get("store_id")

	value, err := h.inventoryUC.TotalValue(r.Context(), storeID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute inventory value", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ValueResponse{Value: value})
}

// Movements lists ledger movements matching the query filters.
func (h *InventoryHandler) Movements(w http.ResponseWriter, r *http.Request) {
	filter := domain.MovementFilter{
		StoreID:     r.URL.Query().Get("store_id"),
		ProductID:   r.URL.Query().Get("product_id"),
		Type:        domain.MovementType(r.URL.Query().Get("type")),
		ReferenceID: r.URL.Query().Get("reference_id"),
		StartDate:   parseTimeQuery(r, "start_date"),
		EndDate:     parseTimeQuery(r, "end_date"),
		Limit:       parseIntQuery(r, "limit", 20),
		Offset:      parseIntQuery(r, "offset", 0),
	}

	movements, err := h.inventoryUC.MovementHistory(r.Context(), filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list movements", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListMovementsResponse{
		Movements: dto.MovementsFromDomain(movements),
		Total:     int64(len(movements)),
	})
}

// Reconcile checks one balance against its movement log.
func (h *InventoryHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")
	productID := chi.URLParam(r, "productID")

	result, err := h.inventoryUC.Reconcile(r.Context(), storeID, productID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reconcile inventory", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(result))
}
