// Package service contains the RabbitMQ-backed notification sink for the
// order engine.  Publishing is fire-and-forget: errors are logged and
// swallowed so a broker outage can never fail or roll back an order
// operation.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/iliyamo/restaurant-pos/internal/pos"
	q "github.com/iliyamo/restaurant-pos/internal/queue"
)

// QueueNotifier implements pos.Notifier by publishing order lifecycle
// events to durable RabbitMQ queues.  An empty URL disables publishing
// entirely, which keeps single-terminal deployments broker-free.
type QueueNotifier struct {
	url string
	log zerolog.Logger
}

// NewQueueNotifier builds a notifier that publishes to the broker at url.
func NewQueueNotifier(url string, log zerolog.Logger) *QueueNotifier {
	return &QueueNotifier{url: url, log: log}
}

// OrderConfirmed publishes an OrderConfirmedEvent.
func (n *QueueNotifier) OrderConfirmed(s pos.OrderSnapshot) {
	lines := make([]q.EventLine, 0, len(s.Lines))
	for _, li := range s.Lines {
		lines = append(lines, q.EventLine{
			ProductID: li.ProductID,
			Name:      li.Name,
			Quantity:  li.Quantity,
			Note:      li.Note,
		})
	}
	n.publish(q.QueueOrderConfirmed, q.OrderConfirmedEvent{
		OrderID:       s.ID,
		TableID:       s.TableID,
		Lines:         lines,
		SubtotalCents: int64(s.Subtotal),
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	})
}

// OrderClosed publishes an OrderClosedEvent.
func (n *QueueNotifier) OrderClosed(s pos.OrderSnapshot) {
	ev := q.OrderClosedEvent{
		OrderID:       s.ID,
		TableID:       s.TableID,
		ReceiptRef:    s.ReceiptRef,
		SubtotalCents: int64(s.Subtotal),
		TotalCents:    int64(s.Total),
		ClosedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if s.Payment != nil {
		ev.PaymentMethod = s.Payment.Method
		ev.ChangeCents = int64(s.Payment.Change)
	}
	n.publish(q.QueueOrderClosed, ev)
}

// OrderCancelled publishes an OrderCancelledEvent.
func (n *QueueNotifier) OrderCancelled(s pos.OrderSnapshot) {
	n.publish(q.QueueOrderCancelled, q.OrderCancelledEvent{
		OrderID:     s.ID,
		TableID:     s.TableID,
		CancelledAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// publish marshals the event and delivers it to the named durable queue.
// It dials per publish so a dropped broker connection never leaves the
// notifier in a broken state; the cost is acceptable at restaurant order
// rates.  It never panics and never surfaces errors to the caller.
func (n *QueueNotifier) publish(queueName string, event interface{}) {
	if n.url == "" {
		return
	}
	conn, err := amqp.Dial(n.url)
	if err != nil {
		n.log.Warn().Err(err).Str("queue", queueName).Msg("rabbitmq: dial failed")
		return
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		n.log.Warn().Err(err).Str("queue", queueName).Msg("rabbitmq: channel open failed")
		return
	}
	defer func() { _ = ch.Close() }()

	// Durable queue so events survive broker restarts; declare is
	// idempotent.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		n.log.Warn().Err(err).Str("queue", queueName).Msg("rabbitmq: queue declare failed")
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		n.log.Warn().Err(err).Str("queue", queueName).Msg("rabbitmq: marshal event failed")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent, // store on disk
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		n.log.Warn().Err(err).Str("queue", queueName).Msg("rabbitmq: publish failed")
	}
}
