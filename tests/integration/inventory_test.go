package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/stockledger/internal/domain"
	"github.com/iho/stockledger/internal/usecase"
)

func TestInventoryLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Seed 10 units at 2.00
	inv, err := env.inventoryUC.Initialize(ctx, usecase.InitializeInput{
		StoreID:   env.storeOne,
		ProductID: env.product,
		Quantity:  10,
		UnitCost:  decimal.RequireFromString("2.00"),
	})
	if err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if inv.QuantityBalance != 10 {
		t.Fatalf("expected balance 10, got %d", inv.QuantityBalance)
	}

	// Purchase 5 more at 4.00: weighted average becomes 2.6667
	inv, err = env.inventoryUC.Purchase(ctx, usecase.PurchaseInput{
		StoreID:   env.storeOne,
		ProductID: env.product,
		Quantity:  5,
		UnitCost:  decimal.RequireFromString("4.00"),
	})
	if err != nil {
		t.Fatalf("purchase failed: %v", err)
	}
	if inv.QuantityBalance != 15 {
		t.Fatalf("expected balance 15, got %d", inv.QuantityBalance)
	}
	if !inv.UnitCost.Equal(decimal.RequireFromString("2.6667")) {
		t.Fatalf("expected weighted average 2.6667, got %s", inv.UnitCost)
	}
	if !inv.TotalCost.Equal(decimal.RequireFromString("40.00")) {
		t.Fatalf("expected total cost 40.00, got %s", inv.TotalCost)
	}

	// Sell 12
	inv, err = env.inventoryUC.Sale(ctx, usecase.SaleInput{
		StoreID:   env.storeOne,
		ProductID: env.product,
		Quantity:  12,
	})
	if err != nil {
		t.Fatalf("sale failed: %v", err)
	}
	if inv.QuantityBalance != 3 {
		t.Fatalf("expected balance 3, got %d", inv.QuantityBalance)
	}
	if !inv.UnitCost.Equal(decimal.RequireFromString("2.6667")) {
		t.Fatalf("expected unit cost unchanged by sale, got %s", inv.UnitCost)
	}

	// Overselling fails and leaves the balance alone
	_, err = env.inventoryUC.Sale(ctx, usecase.SaleInput{
		StoreID:   env.storeOne,
		ProductID: env.product,
		Quantity:  100,
	})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	inv, err = env.inventoryUC.GetBalance(ctx, env.storeOne, env.product)
	if err != nil {
		t.Fatalf("get balance failed: %v", err)
	}
	if inv.QuantityBalance != 3 {
		t.Fatalf("expected balance 3 after rejected sale, got %d", inv.QuantityBalance)
	}

	// The recorded balance must equal the sum of movements
	result, err := env.inventoryUC.Reconcile(ctx, env.storeOne, env.product)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if !result.Consistent {
		t.Fatalf("expected consistent ledger, got %+v", result)
	}
}

func TestInventoryMovementHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.inventoryUC.Initialize(ctx, usecase.InitializeInput{
		StoreID:   env.storeOne,
		ProductID: env.product,
		Quantity:  10,
		UnitCost:  decimal.RequireFromString("2.00"),
	})
	if err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	if _, err := env.inventoryUC.Adjustment(ctx, usecase.AdjustmentInput{
		StoreID:   env.storeOne,
		ProductID: env.product,
		Delta:     -2,
	}); err != nil {
		t.Fatalf("adjustment failed: %v", err)
	}

	movements, err := env.inventoryUC.MovementHistory(ctx, domain.MovementFilter{
		StoreID:   env.storeOne,
		ProductID: env.product,
	})
	if err != nil {
		t.Fatalf("movement history failed: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(movements))
	}

	// Newest first
	if movements[0].Type != domain.MovementAdjustment || movements[0].QuantityChange != -2 {
		t.Fatalf("expected adjustment first, got %+v", movements[0])
	}
}
