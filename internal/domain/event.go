package domain

import "time"

// Event types
const (
	EventTypeOrderCreated   = "order.created"
	EventTypeOrderCompleted = "order.completed"
	EventTypeOrderCancelled = "order.cancelled"
	EventTypeOrderRefunded  = "order.refunded"
)

// Aggregate types
const (
	AggregateTypeOrder = "order"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// NewOrderEvent builds an outbox event for an order lifecycle change.
func NewOrderEvent(id, eventType string, order *Order, now time.Time) *OutboxEvent {
	payload := map[string]any{
		"order_id":     order.ID,
		"store_id":     order.StoreID,
		"employee_id":  order.EmployeeID,
		"total_amount": order.TotalAmount.String(),
		"status":       string(order.Status),
		"event_at":     now.Format(time.RFC3339),
	}

	if order.CustomerID != nil {
		payload["customer_id"] = *order.CustomerID
	}

	return &OutboxEvent{
		ID:            id,
		AggregateID:   order.ID,
		AggregateType: AggregateTypeOrder,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     now,
	}
}
