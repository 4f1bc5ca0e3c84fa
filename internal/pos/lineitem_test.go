package pos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(productID uint64, price Cents, qty int, sel ModifierSelection) LineItem {
	return LineItem{ProductID: productID, Name: "item", UnitPrice: price, Quantity: qty, Selection: sel}
}

func TestMergeCombinesByIdentity(t *testing.T) {
	s := NewLineItemStore()
	sel := ModifierSelection{1: {10, 20}}

	require.NoError(t, s.Merge(item(1, 1000, 2, sel)))
	// Same selection, differently ordered options: must merge, never a
	// second line.
	require.NoError(t, s.Merge(item(1, 1000, 3, ModifierSelection{1: {20, 10}})))

	require.Equal(t, 1, s.Len())
	lines := s.Lines()
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, Cents(5000), s.TotalCents())
}

func TestMergeDistinctSelectionsStayApart(t *testing.T) {
	s := NewLineItemStore()
	require.NoError(t, s.Merge(item(1, 1000, 1, ModifierSelection{1: {10}})))
	require.NoError(t, s.Merge(item(1, 1000, 1, ModifierSelection{1: {20}})))
	require.NoError(t, s.Merge(item(2, 500, 1, nil)))
	assert.Equal(t, 3, s.Len())
}

func TestMergeRejectsNonPositiveDelta(t *testing.T) {
	s := NewLineItemStore()
	assert.ErrorIs(t, s.Merge(item(1, 1000, 0, nil)), ErrInvalidQuantity)
	assert.ErrorIs(t, s.Merge(item(1, 1000, -2, nil)), ErrInvalidQuantity)
	assert.Equal(t, 0, s.Len())
}

func TestMergeKeepsNotes(t *testing.T) {
	s := NewLineItemStore()
	a := item(1, 1000, 1, nil)
	a.Note = "no onions"
	b := item(1, 1000, 1, nil)
	b.Note = "rush"
	require.NoError(t, s.Merge(a))
	require.NoError(t, s.Merge(b))
	require.Equal(t, 1, s.Len())
	assert.Equal(t, "no onions; rush", s.Lines()[0].Note)
}

func TestDecrement(t *testing.T) {
	s := NewLineItemStore()
	li := item(1, 1000, 3, nil)
	require.NoError(t, s.Merge(li))
	key := li.Key()

	require.NoError(t, s.Decrement(key, 1))
	got, ok := s.Get(key)
	require.True(t, ok)
	assert.Equal(t, 2, got.Quantity)

	// Decrementing to zero or below removes the line, never keeps it at
	// quantity zero.
	require.NoError(t, s.Decrement(key, 5))
	_, ok = s.Get(key)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())

	assert.ErrorIs(t, s.Decrement(key, 1), ErrItemNotFound)
}

func TestDecrementRejectsNonPositiveAmount(t *testing.T) {
	s := NewLineItemStore()
	li := item(1, 1000, 3, nil)
	require.NoError(t, s.Merge(li))
	assert.ErrorIs(t, s.Decrement(li.Key(), 0), ErrInvalidQuantity)
	got, _ := s.Get(li.Key())
	assert.Equal(t, 3, got.Quantity)
}

func TestDeletePreservesOrderOfRest(t *testing.T) {
	s := NewLineItemStore()
	first := item(1, 100, 1, nil)
	second := item(2, 200, 1, nil)
	third := item(3, 300, 1, nil)
	require.NoError(t, s.Merge(first))
	require.NoError(t, s.Merge(second))
	require.NoError(t, s.Merge(third))

	require.NoError(t, s.Delete(second.Key()))
	lines := s.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, uint64(1), lines[0].ProductID)
	assert.Equal(t, uint64(3), lines[1].ProductID)

	// The index must have been rebuilt: merging into the shifted line
	// still combines instead of appending.
	require.NoError(t, s.Merge(item(3, 300, 2, nil)))
	assert.Equal(t, 2, s.Len())
	got, _ := s.Get(third.Key())
	assert.Equal(t, 3, got.Quantity)

	assert.ErrorIs(t, s.Delete(second.Key()), ErrItemNotFound)
}

func TestSplitValidity(t *testing.T) {
	s := NewLineItemStore()
	li := item(1, 1000, 5, ModifierSelection{1: {2}})
	require.NoError(t, s.Merge(li))
	key := li.Key()

	_, err := s.Split(key, 0)
	assert.ErrorIs(t, err, ErrInvalidSplit)
	_, err = s.Split(key, -1)
	assert.ErrorIs(t, err, ErrInvalidSplit)
	_, err = s.Split(key, 5) // full quantity is a delete/transfer, not a split
	assert.ErrorIs(t, err, ErrInvalidSplit)
	_, err = s.Split(key, 6)
	assert.ErrorIs(t, err, ErrInvalidSplit)
	_, err = s.Split("missing", 1)
	assert.ErrorIs(t, err, ErrItemNotFound)

	got, _ := s.Get(key)
	assert.Equal(t, 5, got.Quantity, "failed splits must not change the line")

	out, err := s.Split(key, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Quantity)
	assert.Equal(t, key, out.Key())
	assert.Equal(t, Cents(1000), out.UnitPrice)

	remaining, _ := s.Get(key)
	assert.Equal(t, 3, remaining.Quantity)
	// Quantities sum to the original: conservation.
	assert.Equal(t, 5, remaining.Quantity+out.Quantity)
	// The split result is detached, not re-inserted.
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 3, s.TotalQuantity())

	// Re-inserting the detached line must go through Merge and combine.
	require.NoError(t, s.Merge(out))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 5, s.TotalQuantity())
}

func TestTotals(t *testing.T) {
	s := NewLineItemStore()
	require.NoError(t, s.Merge(item(1, 1000, 2, nil)))
	require.NoError(t, s.Merge(item(2, 500, 3, nil)))
	assert.Equal(t, Cents(3500), s.TotalCents())
	assert.Equal(t, 5, s.TotalQuantity())
}

func TestLinesReturnsCopies(t *testing.T) {
	s := NewLineItemStore()
	require.NoError(t, s.Merge(item(1, 1000, 1, ModifierSelection{1: {2}})))

	lines := s.Lines()
	lines[0].Quantity = 99
	lines[0].Selection[1][0] = 777

	fresh := s.Lines()
	assert.Equal(t, 1, fresh[0].Quantity)
	assert.Equal(t, uint64(2), fresh[0].Selection[1][0])
}
