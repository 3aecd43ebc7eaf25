package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/stockledger/internal/domain"
	"github.com/iho/stockledger/internal/usecase"
)

func TestTransferBetweenStores(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.inventoryUC.Initialize(ctx, usecase.InitializeInput{
		StoreID:   env.storeOne,
		ProductID: env.product,
		Quantity:  10,
		UnitCost:  decimal.RequireFromString("3.25"),
	})
	if err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	from, to, err := env.inventoryUC.Transfer(ctx, usecase.TransferInput{
		FromStoreID: env.storeOne,
		ToStoreID:   env.storeTwo,
		ProductID:   env.product,
		Quantity:    6,
	})
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	if from.QuantityBalance != 4 || to.QuantityBalance != 6 {
		t.Fatalf("expected 4/6 split, got %d/%d", from.QuantityBalance, to.QuantityBalance)
	}

	// Destination is seeded at the source unit cost
	if !to.UnitCost.Equal(decimal.RequireFromString("3.25")) {
		t.Fatalf("expected destination unit cost 3.25, got %s", to.UnitCost)
	}

	// Exactly two transfer movements that sum to zero
	movements, err := env.inventoryUC.MovementHistory(ctx, domain.MovementFilter{
		ProductID: env.product,
		Type:      domain.MovementTransfer,
	})
	if err != nil {
		t.Fatalf("movement history failed: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("expected 2 transfer movements, got %d", len(movements))
	}
	if movements[0].QuantityChange+movements[1].QuantityChange != 0 {
		t.Fatalf("expected transfer movements to sum to zero, got %d and %d",
			movements[0].QuantityChange, movements[1].QuantityChange)
	}

	// Both sides reconcile
	for _, storeID := range []string{env.storeOne, env.storeTwo} {
		result, err := env.inventoryUC.Reconcile(ctx, storeID, env.product)
		if err != nil {
			t.Fatalf("reconcile failed for %s: %v", storeID, err)
		}
		if !result.Consistent {
			t.Fatalf("expected consistent ledger for %s, got %+v", storeID, result)
		}
	}
}

func TestTransferInsufficientStockLeavesBothSidesUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.inventoryUC.Initialize(ctx, usecase.InitializeInput{
		StoreID:   env.storeOne,
		ProductID: env.product,
		Quantity:  3,
		UnitCost:  decimal.RequireFromString("3.25"),
	})
	if err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	_, _, err = env.inventoryUC.Transfer(ctx, usecase.TransferInput{
		FromStoreID: env.storeOne,
		ToStoreID:   env.storeTwo,
		ProductID:   env.product,
		Quantity:    10,
	})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	inv, err := env.inventoryUC.GetBalance(ctx, env.storeOne, env.product)
	if err != nil {
		t.Fatalf("get balance failed: %v", err)
	}
	if inv.QuantityBalance != 3 {
		t.Fatalf("expected source untouched at 3, got %d", inv.QuantityBalance)
	}

	if _, err := env.inventoryUC.GetBalance(ctx, env.storeTwo, env.product); !errors.Is(err, domain.ErrInventoryNotFound) {
		t.Fatalf("expected no destination balance, got %v", err)
	}
}
