package pos

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog is an in-memory table catalog.
type fakeCatalog struct {
	tables map[uint64]TableInfo
}

func (c *fakeCatalog) GetTable(_ context.Context, tableID uint64) (TableInfo, error) {
	t, ok := c.tables[tableID]
	if !ok {
		return TableInfo{}, fmt.Errorf("table %d: %w", tableID, ErrTableNotFound)
	}
	return t, nil
}

func newTestRegistry(tableIDs ...uint64) *TableRegistry {
	cat := &fakeCatalog{tables: make(map[uint64]TableInfo)}
	for i, id := range tableIDs {
		cat.tables[id] = TableInfo{ID: id, Number: uint32(i + 1), AreaID: 1}
	}
	return NewTableRegistry(cat, nil, nil, 0)
}

func TestOpenOrCreateOrderUnknownTable(t *testing.T) {
	r := newTestRegistry(10)
	_, err := r.OpenOrCreateOrder(context.Background(), 99)
	assert.ErrorIs(t, err, ErrTableNotFound)
	assert.Nil(t, r.GetOpenOrder(99))
}

func TestOpenOrCreateOrderReturnsExisting(t *testing.T) {
	r := newTestRegistry(10, 11)
	ctx := context.Background()

	a, err := r.OpenOrCreateOrder(ctx, 10)
	require.NoError(t, err)
	b, err := r.OpenOrCreateOrder(ctx, 10)
	require.NoError(t, err)
	assert.Same(t, a, b, "one order per table while it is open")

	c, err := r.OpenOrCreateOrder(ctx, 11)
	require.NoError(t, err)
	assert.Greater(t, c.ID(), a.ID(), "order ids ascend with creation")
	assert.Same(t, a, r.GetOpenOrder(10))
}

func TestTableStateMirrorsOrderStatus(t *testing.T) {
	r := newTestRegistry(10)
	ctx := context.Background()

	assert.Equal(t, TableFree, r.TableState(10))

	o, err := r.OpenOrCreateOrder(ctx, 10)
	require.NoError(t, err)
	// An unconfirmed draft does not occupy the table.
	assert.Equal(t, TableFree, r.TableState(10))

	require.NoError(t, o.ConfirmCart(ctx, cartWith(t, item(1, 1000, 1, nil))))
	assert.Equal(t, TableOccupied, r.TableState(10))

	_, err = o.Close(ctx, PaymentCard, nil)
	require.NoError(t, err)
	assert.Equal(t, TableFree, r.TableState(10))
	assert.Nil(t, r.GetOpenOrder(10), "closed order is unbound from its table")

	// The table can be seated again with a fresh order.
	o2, err := r.OpenOrCreateOrder(ctx, 10)
	require.NoError(t, err)
	assert.NotEqual(t, o.ID(), o2.ID())
}

func TestCancelFreesTableInRegistry(t *testing.T) {
	r := newTestRegistry(10)
	ctx := context.Background()

	o, err := r.OpenOrCreateOrder(ctx, 10)
	require.NoError(t, err)
	require.NoError(t, o.ConfirmCart(ctx, cartWith(t, item(1, 1000, 1, nil))))
	require.Equal(t, TableOccupied, r.TableState(10))

	require.NoError(t, o.Cancel(ctx))
	assert.Equal(t, TableFree, r.TableState(10))
	assert.Nil(t, r.GetOpenOrder(10))
}

func TestFindOrderByID(t *testing.T) {
	r := newTestRegistry(10, 11)
	ctx := context.Background()

	a, err := r.OpenOrCreateOrder(ctx, 10)
	require.NoError(t, err)
	b, err := r.OpenOrCreateOrder(ctx, 11)
	require.NoError(t, err)

	assert.Same(t, a, r.FindOrder(a.ID()))
	assert.Same(t, b, r.FindOrder(b.ID()))
	assert.Nil(t, r.FindOrder(999))

	// Finalized orders disappear from the index.
	require.NoError(t, b.ConfirmCart(ctx, cartWith(t, item(1, 1000, 1, nil))))
	_, err = b.Close(ctx, PaymentCard, nil)
	require.NoError(t, err)
	assert.Nil(t, r.FindOrder(b.ID()))
}

func TestOpenOrdersProjection(t *testing.T) {
	r := newTestRegistry(10, 11, 12)
	ctx := context.Background()

	a, err := r.OpenOrCreateOrder(ctx, 10)
	require.NoError(t, err)
	_, err = r.OpenOrCreateOrder(ctx, 11)
	require.NoError(t, err)

	open := r.OpenOrders()
	assert.Len(t, open, 2)
	assert.Same(t, a, open[10])
}
