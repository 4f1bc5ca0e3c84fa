// Package queue defines message payloads exchanged over the message
// broker and the background consumer that turns them into kitchen and
// cashier notifications.
package queue

// Queue names for the order lifecycle events.  One durable queue per
// event type; routing key equals the queue name on the default exchange.
const (
	QueueOrderConfirmed = "order.confirmed"
	QueueOrderClosed    = "order.closed"
	QueueOrderCancelled = "order.cancelled"
)

// EventLine summarizes one order line for downstream consumers (kitchen
// tickets, notification feeds) without requiring a catalog lookup.
type EventLine struct {
	ProductID uint64 `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note,omitempty"`
}

// OrderConfirmedEvent is published every time a cart is confirmed into an
// order.  The kitchen works from these, so lines carry names and notes.
type OrderConfirmedEvent struct {
	OrderID       uint64      `json:"order_id"`
	TableID       uint64      `json:"table_id"`
	Lines         []EventLine `json:"lines"`
	SubtotalCents int64       `json:"subtotal_cents"`
	ConfirmedAt   string      `json:"confirmed_at"`
}

// OrderClosedEvent is published when an order is finalized with a
// payment.
type OrderClosedEvent struct {
	OrderID       uint64 `json:"order_id"`
	TableID       uint64 `json:"table_id"`
	ReceiptRef    string `json:"receipt_ref"`
	SubtotalCents int64  `json:"subtotal_cents"`
	TotalCents    int64  `json:"total_cents"`
	PaymentMethod string `json:"payment_method"`
	ChangeCents   int64  `json:"change_cents"`
	ClosedAt      string `json:"closed_at"`
}

// OrderCancelledEvent is published when an open order is voided.
type OrderCancelledEvent struct {
	OrderID     uint64 `json:"order_id"`
	TableID     uint64 `json:"table_id"`
	CancelledAt string `json:"cancelled_at"`
}
