package pos

import "context"

// Transfer moves quantity units of the identified line item from the
// source order to the destination order.  Moving the full quantity deletes
// the line from the source and merges it into the destination; a partial
// quantity goes through split + merge.  Either way the destination merge
// follows the identity-key rule, so an existing matching line simply grows.
//
// Quantity is conserved: source total before = source total after +
// quantity, and the destination gains exactly quantity for that identity.
//
// Both orders are locked for the duration, always in ascending order-id
// order so two opposite-direction transfers cannot deadlock.  Fails with
// ErrSameOrder, ErrItemNotFound, ErrInvalidSplit (quantity out of range),
// ErrAlreadyClosed when either order is finalized, or ErrBusy.
func Transfer(ctx context.Context, src *Order, key string, quantity int, dst *Order) error {
	if src == dst || src.id == dst.id {
		return ErrSameOrder
	}

	first, second := src, dst
	if second.id < first.id {
		first, second = second, first
	}
	if err := first.mu.lock(ctx); err != nil {
		return err
	}
	if err := second.mu.lock(ctx); err != nil {
		first.mu.unlock()
		return err
	}

	occupyDst := false
	err := func() error {
		defer first.mu.unlock()
		defer second.mu.unlock()

		if src.status != StatusDraft && src.status != StatusOpen {
			return ErrAlreadyClosed
		}
		if dst.status != StatusDraft && dst.status != StatusOpen {
			return ErrAlreadyClosed
		}
		line, ok := src.store.Get(key)
		if !ok {
			return ErrItemNotFound
		}
		if quantity < 1 || quantity > line.Quantity {
			return ErrInvalidSplit
		}

		var moved LineItem
		if quantity == line.Quantity {
			moved = line
			_ = src.store.Delete(key)
		} else {
			var err error
			moved, err = src.store.Split(key, quantity)
			if err != nil {
				return err
			}
		}
		_ = dst.store.Merge(moved)

		// Receiving items puts a Draft destination into play the same way
		// a first confirm would.
		if dst.status == StatusDraft {
			dst.status = StatusOpen
			occupyDst = true
		}
		return nil
	}()
	if err != nil {
		return err
	}
	if occupyDst && dst.tables != nil {
		dst.tables.markOccupied(dst.tableID)
	}
	return nil
}
