package pos

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Order status values.  Draft exists only between order creation and the
// first confirmed cart; it is not externally observable as a distinct table
// state (the table stays Free until the first confirm).
const (
	StatusDraft     = "DRAFT"
	StatusOpen      = "OPEN"
	StatusClosed    = "CLOSED"
	StatusCancelled = "CANCELLED"
)

// Payment methods accepted at close.
const (
	PaymentCash = "CASH"
	PaymentCard = "CARD"
)

// Payment is the payment snapshot stamped on an order at close.
//
// Fields:
//
//	Method   – payment method (CASH, CARD).
//	Tendered – cash handed over; zero for non-cash or exact payments.
//	Change   – Tendered minus total when cash covers the total, else zero.
type Payment struct {
	Method   string `json:"method"`
	Tendered Cents  `json:"tendered_cents,omitempty"`
	Change   Cents  `json:"change_cents,omitempty"`
}

// AdjustmentFunc adjusts an order's subtotal into its total at close time
// (service charge, discount).  The default is the identity function; the
// engine deliberately ships no discount algorithm of its own.
type AdjustmentFunc func(subtotal Cents) Cents

// tableStateSink receives table state changes driven by order transitions.
// Only the registry implements it; external callers must never set table
// state directly since it is fully derived from order status.
type tableStateSink interface {
	markOccupied(tableID uint64)
	markFree(tableID uint64)
}

// Notifier is the fire-and-forget sink for user-facing order events.  It is
// invoked after a mutation has committed and outside the order's lock;
// implementations must not block for long and their failures are invisible
// to the engine's transactional guarantees.
type Notifier interface {
	OrderConfirmed(s OrderSnapshot)
	OrderClosed(s OrderSnapshot)
	OrderCancelled(s OrderSnapshot)
}

// OrderSnapshot is a consistent, detached copy of an order's state, used
// for read projections, events and the archive.
type OrderSnapshot struct {
	ID         uint64     `json:"id"`
	TableID    uint64     `json:"table_id"`
	Status     string     `json:"status"`
	Lines      []LineItem `json:"lines"`
	Subtotal   Cents      `json:"subtotal_cents"`
	Total      Cents      `json:"total_cents"`
	OpenedAt   time.Time  `json:"opened_at"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
	Payment    *Payment   `json:"payment,omitempty"`
	ReceiptRef string     `json:"receipt_ref,omitempty"`
}

// Order aggregates a table's line items and lifecycle state.  All mutating
// operations run under the order's exclusive bounded-wait lock and are
// all-or-nothing: validation happens before any state changes, so a failed
// call leaves the order exactly as it was.  Reads take the same lock
// briefly to copy a snapshot out.
type Order struct {
	id      uint64
	tableID uint64
	mu      *timedMutex

	status     string
	store      *LineItemStore
	openedAt   time.Time
	closedAt   time.Time
	payment    *Payment
	receiptRef string
	subtotal   Cents
	total      Cents

	adjust AdjustmentFunc
	tables tableStateSink
	notify Notifier
}

func newOrder(id, tableID uint64, tables tableStateSink, notify Notifier, adjust AdjustmentFunc, lockWait time.Duration) *Order {
	if adjust == nil {
		adjust = func(subtotal Cents) Cents { return subtotal }
	}
	return &Order{
		id:       id,
		tableID:  tableID,
		mu:       newTimedMutex(lockWait),
		status:   StatusDraft,
		store:    NewLineItemStore(),
		openedAt: time.Now().UTC(),
		adjust:   adjust,
		tables:   tables,
		notify:   notify,
	}
}

// ID returns the order id.  Ids are assigned in ascending creation order
// and double as the total lock order for cross-order transfers.
func (o *Order) ID() uint64 { return o.id }

// TableID returns the id of the table this order is bound to.
func (o *Order) TableID() uint64 { return o.tableID }

// ConfirmCart merges every line of the cart into the order with its full
// quantity, using the identity-key merge rule.  An empty or nil cart is a
// no-op, not an error, and changes nothing.  The first non-empty confirm
// moves the order Draft→Open and marks the table Occupied (idempotent when
// already Occupied).  Fails with ErrAlreadyClosed once the order has left
// Draft/Open, or ErrBusy when the lock cannot be acquired in time.
func (o *Order) ConfirmCart(ctx context.Context, cart *LineItemStore) error {
	if cart == nil || cart.Len() == 0 {
		return nil
	}
	if err := o.mu.lock(ctx); err != nil {
		return err
	}
	confirmed := false
	var snap OrderSnapshot
	func() {
		defer o.mu.unlock()
		if o.status != StatusDraft && o.status != StatusOpen {
			return
		}
		// Store invariants guarantee every cart line has quantity ≥ 1,
		// so the merges below cannot fail and the confirm is atomic.
		for _, li := range cart.Lines() {
			_ = o.store.Merge(li)
		}
		if o.status == StatusDraft {
			o.status = StatusOpen
		}
		confirmed = true
		snap = o.snapshotLocked()
	}()
	if !confirmed {
		return ErrAlreadyClosed
	}
	if o.tables != nil {
		o.tables.markOccupied(o.tableID)
	}
	if o.notify != nil {
		o.notify.OrderConfirmed(snap)
	}
	return nil
}

// DecrementLine reduces a line's quantity, removing the line when it would
// reach zero.  See LineItemStore.Decrement for the error cases.
func (o *Order) DecrementLine(ctx context.Context, key string, amount int) error {
	return o.mutateStore(ctx, func() error { return o.store.Decrement(key, amount) })
}

// DeleteLine removes a line unconditionally.
func (o *Order) DeleteLine(ctx context.Context, key string) error {
	return o.mutateStore(ctx, func() error { return o.store.Delete(key) })
}

// Split extracts quantity units of the identified line into a detached
// line item, the order's pending-transfer buffer.  The order never holds
// two lines of one identity, so the result must be disposed of — merged
// into another order via Transfer, or merged straight back — before it
// means anything.  See LineItemStore.Split for the validation rules.
func (o *Order) Split(ctx context.Context, key string, quantity int) (LineItem, error) {
	var out LineItem
	err := o.mutateStore(ctx, func() error {
		var err error
		out, err = o.store.Split(key, quantity)
		return err
	})
	return out, err
}

// Close finalizes the order with a payment and frees its table.  The
// subtotal is the store total; the total is the subtotal run through the
// adjustment hook.  For cash payments with a tendered amount, the tendered
// cash must cover the total (ErrInvalidPayment otherwise) and the change
// is tendered minus total.  Fails with ErrEmptyOrder when no lines exist
// and with ErrAlreadyClosed when the order is already finalized.  Returns
// the closed snapshot.
func (o *Order) Close(ctx context.Context, method string, tendered *Cents) (OrderSnapshot, error) {
	if err := o.mu.lock(ctx); err != nil {
		return OrderSnapshot{}, err
	}
	var snap OrderSnapshot
	err := func() error {
		defer o.mu.unlock()
		if o.status != StatusDraft && o.status != StatusOpen {
			return ErrAlreadyClosed
		}
		if o.store.Len() == 0 {
			return ErrEmptyOrder
		}
		subtotal := o.store.TotalCents()
		total := o.adjust(subtotal)
		pay := Payment{Method: method}
		if method == PaymentCash && tendered != nil {
			if *tendered < total {
				return ErrInvalidPayment
			}
			pay.Tendered = *tendered
			pay.Change = *tendered - total
		}
		o.subtotal = subtotal
		o.total = total
		o.payment = &pay
		o.status = StatusClosed
		o.closedAt = time.Now().UTC()
		o.receiptRef = uuid.NewString()
		snap = o.snapshotLocked()
		return nil
	}()
	if err != nil {
		return OrderSnapshot{}, err
	}
	if o.tables != nil {
		o.tables.markFree(o.tableID)
	}
	if o.notify != nil {
		o.notify.OrderClosed(snap)
	}
	return snap, nil
}

// Cancel voids an order that is still Draft or Open and frees its table.
// Fails with ErrAlreadyClosed otherwise.
func (o *Order) Cancel(ctx context.Context) error {
	if err := o.mu.lock(ctx); err != nil {
		return err
	}
	var snap OrderSnapshot
	err := func() error {
		defer o.mu.unlock()
		if o.status != StatusDraft && o.status != StatusOpen {
			return ErrAlreadyClosed
		}
		o.status = StatusCancelled
		o.closedAt = time.Now().UTC()
		snap = o.snapshotLocked()
		return nil
	}()
	if err != nil {
		return err
	}
	if o.tables != nil {
		o.tables.markFree(o.tableID)
	}
	if o.notify != nil {
		o.notify.OrderCancelled(snap)
	}
	return nil
}

// Snapshot returns a consistent copy of the order's current state.  For an
// order that is still open, Subtotal and Total are computed on the fly
// from the live store and the adjustment hook.
func (o *Order) Snapshot(ctx context.Context) (OrderSnapshot, error) {
	if err := o.mu.lock(ctx); err != nil {
		return OrderSnapshot{}, err
	}
	defer o.mu.unlock()
	return o.snapshotLocked(), nil
}

// Lines returns the order's line items in insertion order.
func (o *Order) Lines(ctx context.Context) ([]LineItem, error) {
	snap, err := o.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Lines, nil
}

// Subtotal returns the sum of the order's line totals.
func (o *Order) Subtotal(ctx context.Context) (Cents, error) {
	snap, err := o.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return snap.Subtotal, nil
}

// Total returns the subtotal adjusted by the surcharge/discount hook.
func (o *Order) Total(ctx context.Context) (Cents, error) {
	snap, err := o.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return snap.Total, nil
}

// Status returns the order's current status.
func (o *Order) Status(ctx context.Context) (string, error) {
	snap, err := o.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	return snap.Status, nil
}

// mutateStore runs fn on the backing store under the order's lock after
// checking that the order is still mutable.
func (o *Order) mutateStore(ctx context.Context, fn func() error) error {
	if err := o.mu.lock(ctx); err != nil {
		return err
	}
	defer o.mu.unlock()
	if o.status != StatusDraft && o.status != StatusOpen {
		return ErrAlreadyClosed
	}
	return fn()
}

// snapshotLocked builds a snapshot; the caller must hold the lock.
func (o *Order) snapshotLocked() OrderSnapshot {
	snap := OrderSnapshot{
		ID:         o.id,
		TableID:    o.tableID,
		Status:     o.status,
		Lines:      o.store.Lines(),
		OpenedAt:   o.openedAt,
		ReceiptRef: o.receiptRef,
	}
	if o.status == StatusClosed {
		snap.Subtotal = o.subtotal
		snap.Total = o.total
	} else {
		snap.Subtotal = o.store.TotalCents()
		snap.Total = o.adjust(snap.Subtotal)
	}
	if !o.closedAt.IsZero() {
		t := o.closedAt
		snap.ClosedAt = &t
	}
	if o.payment != nil {
		p := *o.payment
		snap.Payment = &p
	}
	return snap
}
