package integration

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/stockledger/internal/domain"
	"github.com/iho/stockledger/internal/usecase"
)

func TestOrderEventsFlowThroughOutbox(t *testing.T) {
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

	order, err := env.orderUC.Create(ctx, usecase.CreateOrderInput{
		StoreID:    env.storeOne,
		EmployeeID: env.employee,
		Items: []usecase.OrderItemInput{
			{ProductID: env.product, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if _, err := env.orderUC.Complete(ctx, order.ID); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	events, err := env.outboxRepo.GetUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("get unpublished failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 unpublished events, got %d", len(events))
	}

	// Oldest first
	if events[0].EventType != domain.EventTypeOrderCreated {
		t.Fatalf("expected order.created first, got %s", events[0].EventType)
	}
	if events[1].EventType != domain.EventTypeOrderCompleted {
		t.Fatalf("expected order.completed second, got %s", events[1].EventType)
	}
	if events[0].AggregateID != order.ID {
		t.Fatalf("expected aggregate %s, got %s", order.ID, events[0].AggregateID)
	}

	// Marking published removes the event from the backlog
	if err := env.outboxRepo.MarkPublished(ctx, events[0].ID, time.Now().UTC()); err != nil {
		t.Fatalf("mark published failed: %v", err)
	}

	events, err = env.outboxRepo.GetUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("get unpublished failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 remaining event, got %d", len(events))
	}
	if events[0].EventType != domain.EventTypeOrderCompleted {
		t.Fatalf("expected order.completed to remain, got %s", events[0].EventType)
	}
}
