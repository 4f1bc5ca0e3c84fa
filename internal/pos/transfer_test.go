package pos

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transferFixture(t *testing.T) (*TableRegistry, *Order, *Order) {
	t.Helper()
	r := newTestRegistry(10, 11)
	ctx := context.Background()
	src, err := r.OpenOrCreateOrder(ctx, 10)
	require.NoError(t, err)
	dst, err := r.OpenOrCreateOrder(ctx, 11)
	require.NoError(t, err)
	return r, src, dst
}

func TestTransferPartialThenRemainder(t *testing.T) {
	_, src, dst := transferFixture(t)
	ctx := context.Background()
	li := item(7, 1000, 5, ModifierSelection{1: {2}})
	require.NoError(t, src.ConfirmCart(ctx, cartWith(t, li)))
	key := li.Key()

	require.NoError(t, Transfer(ctx, src, key, 2, dst))

	srcSnap, err := src.Snapshot(ctx)
	require.NoError(t, err)
	dstSnap, err := dst.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, srcSnap.Lines, 1)
	assert.Equal(t, 3, srcSnap.Lines[0].Quantity)
	require.Len(t, dstSnap.Lines, 1)
	assert.Equal(t, 2, dstSnap.Lines[0].Quantity)
	assert.Equal(t, Cents(1000), dstSnap.Lines[0].UnitPrice, "price travels with the line")

	// Transferring the full remainder deletes the source line.
	require.NoError(t, Transfer(ctx, src, key, 3, dst))

	srcSnap, err = src.Snapshot(ctx)
	require.NoError(t, err)
	dstSnap, err = dst.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, srcSnap.Lines)
	require.Len(t, dstSnap.Lines, 1)
	assert.Equal(t, 5, dstSnap.Lines[0].Quantity, "destination merges by identity")
}

func TestTransferIntoExistingMatchingLine(t *testing.T) {
	_, src, dst := transferFixture(t)
	ctx := context.Background()
	li := item(7, 1000, 5, nil)
	require.NoError(t, src.ConfirmCart(ctx, cartWith(t, li)))
	require.NoError(t, dst.ConfirmCart(ctx, cartWith(t, item(7, 1000, 1, nil))))

	require.NoError(t, Transfer(ctx, src, li.Key(), 2, dst))

	dstSnap, err := dst.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, dstSnap.Lines, 1)
	assert.Equal(t, 3, dstSnap.Lines[0].Quantity)
}

func TestTransferConservesQuantity(t *testing.T) {
	_, src, dst := transferFixture(t)
	ctx := context.Background()
	li := item(7, 1000, 5, nil)
	require.NoError(t, src.ConfirmCart(ctx, cartWith(t, li)))
	before := src.store.TotalQuantity() + dst.store.TotalQuantity()

	require.NoError(t, Transfer(ctx, src, li.Key(), 4, dst))

	after := src.store.TotalQuantity() + dst.store.TotalQuantity()
	assert.Equal(t, before, after)
}

func TestTransferErrors(t *testing.T) {
	_, src, dst := transferFixture(t)
	ctx := context.Background()
	li := item(7, 1000, 5, nil)
	require.NoError(t, src.ConfirmCart(ctx, cartWith(t, li)))
	key := li.Key()

	assert.ErrorIs(t, Transfer(ctx, src, key, 2, src), ErrSameOrder)
	assert.ErrorIs(t, Transfer(ctx, src, "missing", 1, dst), ErrItemNotFound)
	assert.ErrorIs(t, Transfer(ctx, src, key, 0, dst), ErrInvalidSplit)
	assert.ErrorIs(t, Transfer(ctx, src, key, 6, dst), ErrInvalidSplit)

	snap, err := src.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, snap.Lines[0].Quantity, "failed transfers leave the source unchanged")
}

func TestTransferRejectsFinalizedOrders(t *testing.T) {
	_, src, dst := transferFixture(t)
	ctx := context.Background()
	li := item(7, 1000, 5, nil)
	require.NoError(t, src.ConfirmCart(ctx, cartWith(t, li)))
	require.NoError(t, dst.ConfirmCart(ctx, cartWith(t, item(8, 500, 1, nil))))

	_, err := dst.Close(ctx, PaymentCard, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, Transfer(ctx, src, li.Key(), 2, dst), ErrAlreadyClosed)
}

func TestTransferOpensDraftDestination(t *testing.T) {
	r, src, dst := transferFixture(t)
	ctx := context.Background()
	li := item(7, 1000, 5, nil)
	require.NoError(t, src.ConfirmCart(ctx, cartWith(t, li)))
	require.Equal(t, TableFree, r.TableState(11))

	require.NoError(t, Transfer(ctx, src, li.Key(), 2, dst))

	status, err := dst.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, status)
	assert.Equal(t, TableOccupied, r.TableState(11), "receiving items occupies the destination table")
}

// Two transfers moving items in opposite directions must not deadlock:
// locks are always taken in ascending order-id order.
func TestTransferOppositeDirectionsNoDeadlock(t *testing.T) {
	_, a, b := transferFixture(t)
	ctx := context.Background()
	liA := item(1, 1000, 200, nil)
	liB := item(2, 500, 200, nil)
	require.NoError(t, a.ConfirmCart(ctx, cartWith(t, liA)))
	require.NoError(t, b.ConfirmCart(ctx, cartWith(t, liB)))

	mustTransfer := func(src *Order, key string, dst *Order) {
		for {
			err := Transfer(ctx, src, key, 1, dst)
			if errors.Is(err, ErrBusy) {
				continue
			}
			require.NoError(t, err)
			return
		}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			mustTransfer(a, liA.Key(), b)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			mustTransfer(b, liB.Key(), a)
		}
	}()
	wg.Wait()

	total := a.store.TotalQuantity() + b.store.TotalQuantity()
	assert.Equal(t, 400, total, "quantity is conserved across concurrent transfers")
}
