package pos

import "time"

// LineItem is one (product, modifier selection, quantity) entry within a
// cart or an order.  The unit price is captured when the line is built from
// the catalog and never recomputed, so historical orders are immune to
// later price changes.
//
// Fields:
//
//	ProductID – catalog product id.
//	Name      – product display name captured at add time (for display,
//	            events and the archive; the engine never reads it back
//	            from the catalog).
//	UnitPrice – unit price in minor units captured at add time.
//	Quantity  – always ≥ 1; a line whose quantity reaches zero is removed.
//	Selection – immutable modifier selection in canonical form.
//	Note      – free-text kitchen note; excluded from identity.
//	AddedAt   – when the line first entered the store.
type LineItem struct {
	ProductID uint64            `json:"product_id"`
	Name      string            `json:"name"`
	UnitPrice Cents             `json:"unit_price_cents"`
	Quantity  int               `json:"quantity"`
	Selection ModifierSelection `json:"modifiers,omitempty"`
	Note      string            `json:"note,omitempty"`
	AddedAt   time.Time         `json:"added_at"`
}

// Key returns the line's identity key, derived from the product and the
// modifier selection.
func (li LineItem) Key() string {
	return IdentityKey(li.ProductID, li.Selection)
}

// Total returns UnitPrice * Quantity.
func (li LineItem) Total() Cents {
	return LineTotal(li.UnitPrice, li.Quantity)
}

// clone returns a copy whose selection cannot be aliased by the caller.
func (li LineItem) clone() LineItem {
	cp := li
	cp.Selection = copySelection(li.Selection)
	return cp
}

// LineItemStore is an ordered collection of line items keyed by identity.
// Insertion order is preserved for display; an index map gives O(1) merge
// and lookup.  At most one line exists per identity key, and the sum of
// quantities is conserved across merge/split/transfer operations that do
// not explicitly delete.
//
// The store itself is not goroutine-safe: a transient cart belongs to one
// request, and a store attached to an order is only touched under that
// order's lock.
type LineItemStore struct {
	lines []LineItem
	index map[string]int
}

// NewLineItemStore returns an empty store, ready to be used as a cart or
// as an order's backing store.
func NewLineItemStore() *LineItemStore {
	return &LineItemStore{index: make(map[string]int)}
}

// Merge adds item's quantity into the store.  When a line with the same
// identity key already exists its quantity grows by item.Quantity;
// otherwise item is appended as a new line.  The incoming quantity acts as
// the delta and must be positive, else ErrInvalidQuantity.  On a combining
// merge the earlier line's price, selection and added-at stamp win; a
// differing incoming note is appended to the existing note so no kitchen
// instruction is lost.
func (s *LineItemStore) Merge(item LineItem) error {
	if item.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	key := item.Key()
	if i, ok := s.index[key]; ok {
		s.lines[i].Quantity += item.Quantity
		if item.Note != "" && item.Note != s.lines[i].Note {
			if s.lines[i].Note == "" {
				s.lines[i].Note = item.Note
			} else {
				s.lines[i].Note += "; " + item.Note
			}
		}
		return nil
	}
	cp := item.clone()
	if cp.AddedAt.IsZero() {
		cp.AddedAt = time.Now().UTC()
	}
	s.index[key] = len(s.lines)
	s.lines = append(s.lines, cp)
	return nil
}

// Decrement reduces the quantity of the line with the given identity key.
// If the result would be zero or less, the line is removed entirely rather
// than clamped.  Returns ErrInvalidQuantity for a non-positive amount and
// ErrItemNotFound when no such line exists.
func (s *LineItemStore) Decrement(key string, amount int) error {
	if amount <= 0 {
		return ErrInvalidQuantity
	}
	i, ok := s.index[key]
	if !ok {
		return ErrItemNotFound
	}
	if s.lines[i].Quantity <= amount {
		s.removeAt(i, key)
		return nil
	}
	s.lines[i].Quantity -= amount
	return nil
}

// Delete removes the line with the given identity key unconditionally.
// Returns ErrItemNotFound when absent.
func (s *LineItemStore) Delete(key string) error {
	i, ok := s.index[key]
	if !ok {
		return ErrItemNotFound
	}
	s.removeAt(i, key)
	return nil
}

// Split extracts splitQuantity units from the line with the given key into
// a new, detached line carrying the same product, price, selection and
// note.  Requires 1 ≤ splitQuantity < current quantity: splitting the
// entire quantity is a delete or a transfer, not a split.  The returned
// line is NOT re-inserted here — two lines with one key may never coexist
// in a store — so the caller must dispose of it via a merge into some
// store.  Returns ErrItemNotFound or ErrInvalidSplit.
func (s *LineItemStore) Split(key string, splitQuantity int) (LineItem, error) {
	i, ok := s.index[key]
	if !ok {
		return LineItem{}, ErrItemNotFound
	}
	if splitQuantity < 1 || splitQuantity >= s.lines[i].Quantity {
		return LineItem{}, ErrInvalidSplit
	}
	s.lines[i].Quantity -= splitQuantity
	out := s.lines[i].clone()
	out.Quantity = splitQuantity
	return out, nil
}

// Get returns a copy of the line with the given identity key.
func (s *LineItemStore) Get(key string) (LineItem, bool) {
	i, ok := s.index[key]
	if !ok {
		return LineItem{}, false
	}
	return s.lines[i].clone(), true
}

// Lines returns the line items in insertion order.  The slice and the
// selections within it are copies; mutating them does not affect the store.
func (s *LineItemStore) Lines() []LineItem {
	out := make([]LineItem, len(s.lines))
	for i, li := range s.lines {
		out[i] = li.clone()
	}
	return out
}

// Len returns the number of distinct lines.
func (s *LineItemStore) Len() int {
	return len(s.lines)
}

// TotalCents sums UnitPrice * Quantity over all lines using exact integer
// arithmetic.
func (s *LineItemStore) TotalCents() Cents {
	var sum Cents
	for _, li := range s.lines {
		sum += li.Total()
	}
	return sum
}

// TotalQuantity sums the quantities of all lines.  Useful for the
// conservation checks around splits and transfers.
func (s *LineItemStore) TotalQuantity() int {
	var sum int
	for _, li := range s.lines {
		sum += li.Quantity
	}
	return sum
}

// removeAt deletes the line at index i (which must map to key) and
// reindexes the lines that followed it, keeping display order intact.
func (s *LineItemStore) removeAt(i int, key string) {
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	delete(s.index, key)
	for j := i; j < len(s.lines); j++ {
		s.index[s.lines[j].Key()] = j
	}
}
