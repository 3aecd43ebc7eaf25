package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/stockledger/internal/domain"
)

// ReportUseCase computes read-only projections over order and ledger history.
type ReportUseCase struct {
	orderRepo     OrderRepository
	inventoryRepo InventoryRepository
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(orderRepo OrderRepository, inventoryRepo InventoryRepository) *ReportUseCase {
	return &ReportUseCase{
		orderRepo:     orderRepo,
		inventoryRepo: inventoryRepo,
	}
}

// SalesReportInput narrows sales reports. Zero values mean "any".
type SalesReportInput struct {
	StoreID   string
	StartDate *time.Time
	EndDate   *time.Time
}

// TotalSales sums total amounts of completed orders.
func (uc *ReportUseCase) TotalSales(ctx context.Context, input SalesReportInput) (decimal.Decimal, error) {
	return uc.orderRepo.TotalSales(ctx, input.StoreID, input.StartDate, input.EndDate)
}

// SalesStatistics summarizes completed-order sales.
type SalesStatistics struct {
	TotalSales  decimal.Decimal
	OrderCount  int64
	AverageSale decimal.Decimal
}

// Statistics computes total, count and average sale over completed orders.
func (uc *ReportUseCase) Statistics(ctx context.Context, input SalesReportInput) (*SalesStatistics, error) {
	total, err := uc.orderRepo.TotalSales(ctx, input.StoreID, input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	count, err := uc.orderRepo.CountByStatus(ctx, domain.OrderStatusCompleted, input.StoreID)
	if err != nil {
		return nil, err
	}

	average := decimal.Zero
	if count > 0 {
		average = total.DivRound(decimal.NewFromInt(count), 2)
	}

	return &SalesStatistics{
		TotalSales:  total,
		OrderCount:  count,
		AverageSale: average,
	}, nil
}

// ProductSalesReport summarizes sales of one product.
type ProductSalesReport struct {
	ProductID    string
	QuantitySold int64
	TotalRevenue decimal.Decimal
}

// ProductSales reports quantity sold and revenue for a product over completed
// orders in the optional date range.
func (uc *ReportUseCase) ProductSales(ctx context.Context, productID string, startDate, endDate *time.Time) (*ProductSalesReport, error) {
	quantity, revenue, err := uc.orderRepo.ProductSales(ctx, productID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	return &ProductSalesReport{
		ProductID:    productID,
		QuantitySold: quantity,
		TotalRevenue: revenue,
	}, nil
}

// InventoryValue sums total cost across balances, optionally for one store.
func (uc *ReportUseCase) InventoryValue(ctx context.Context, storeID string) (decimal.Decimal, error) {
	return uc.inventoryRepo.TotalValue(ctx, storeID)
}
