// Package pos implements the table and order aggregation engine for the
// restaurant point of sale: carts, line item merging by product+modifier
// identity, order lifecycle (confirm, split, transfer, close, cancel) and
// the registry that enforces one open order per table.  The engine works on
// in-memory aggregates; catalog lookups, persistence and notifications are
// supplied by collaborators through small interfaces.
package pos

import "errors"

// Sentinel errors returned by engine operations.  These are reused across
// the store, order and registry layers so that handlers can distinguish
// failure scenarios with errors.Is and translate them into HTTP responses.
// Every rejected operation leaves all aggregates unchanged.
var (
	// ErrInvalidQuantity is returned when a merge or decrement is asked to
	// apply a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrItemNotFound is returned when no line item with the given
	// identity key exists in the store.
	ErrItemNotFound = errors.New("line item not found")

	// ErrInvalidSplit is returned when a split quantity is out of range.
	// A valid split takes at least one unit and leaves at least one unit
	// behind; splitting the entire quantity is a delete or a transfer.
	ErrInvalidSplit = errors.New("split quantity out of range")

	// ErrEmptyOrder is returned when closing an order that has no lines.
	ErrEmptyOrder = errors.New("order has no items")

	// ErrInvalidPayment is returned when the cash tendered does not cover
	// the order total.
	ErrInvalidPayment = errors.New("insufficient cash tendered")

	// ErrAlreadyClosed is returned when mutating an order that has left
	// the Draft/Open states.
	ErrAlreadyClosed = errors.New("order already closed or cancelled")

	// ErrTableNotFound is returned when the table id is unknown to the
	// table catalog.
	ErrTableNotFound = errors.New("table not found")

	// ErrSameOrder is returned when a transfer names the same order as
	// both source and destination.  The caller should surface this rather
	// than treat it as a silent no-op.
	ErrSameOrder = errors.New("source and destination order are the same")

	// ErrBusy is returned when an order's lock could not be acquired
	// within the bounded wait.  Retrying is the caller's decision; the
	// engine never retries on its own.
	ErrBusy = errors.New("order is busy, try again")
)
