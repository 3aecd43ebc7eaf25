package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/stockledger/internal/adapter/http/dto"
	"github.com/iho/stockledger/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	TotalSales(ctx context.Context, input usecase.SalesReportInput) (decimal.Decimal, error)
	Statistics(ctx context.Context, input usecase.SalesReportInput) (*usecase.SalesStatistics, error)
	ProductSales(ctx context.Context, productID string, startDate, endDate *time.Time) (*usecase.ProductSalesReport, error)
	InventoryValue(ctx context.Context, storeID string) (decimal.Decimal, error)
}

// ReportHandler handles reporting HTTP requests.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// TotalSales reports revenue of completed orders.
func (h *ReportHandler) TotalSales(w http.ResponseWriter, r *http.Request) {
	input := usecase.SalesReportInput{
		StoreID:   r.URL.Query().Get("store_id"),
		StartDate: parseTimeQuery(r, "start_date"),
		EndDate:   parseTimeQuery(r, "end_date"),
	}

	total, err := h.reportUC.TotalSales(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute total sales", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ValueResponse{Value: total})
}

// Statistics reports sales totals, counts and averages.
func (h *ReportHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	input := usecase.SalesReportInput{
		StoreID:   r.URL.Query().Get("store_id"),
		StartDate: parseTimeQuery(r, "start_date"),
		EndDate:   parseTimeQuery(r, "end_date"),
	}

	stats, err := h.reportUC.Statistics(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute sales statistics", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SalesStatisticsResponse{
		TotalSales:  stats.TotalSales,
		OrderCount:  stats.OrderCount,
		AverageSale: stats.AverageSale,
	})
}

// ProductSales reports quantity sold and revenue for one product.
func (h *ReportHandler) ProductSales(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	report, err := h.reportUC.ProductSales(r.Context(), productID, parseTimeQuery(r, "start_date"), parseTimeQuery(r, "end_date"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute product sales", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ProductSalesResponse{
		ProductID:    report.ProductID,
		QuantitySold: report.QuantitySold,
		TotalRevenue: report.TotalRevenue,
	})
}

// InventoryValue reports inventory value, optionally for one store.
func (h *ReportHandler) InventoryValue(w http.ResponseWriter, r *http.Request) {
	storeID := r.URL.Query().Get("store_id")

	value, err := h.reportUC.InventoryValue(r.Context(), storeID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute inventory value", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ValueResponse{Value: value})
}
