package pos

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Table states derived from order status.  A table is Occupied from the
// first confirmed cart until its order is closed or cancelled.
const (
	TableFree     = "FREE"
	TableOccupied = "OCCUPIED"
)

// TableInfo is the slice of the external table catalog the engine needs.
// Table identity and numbering are owned by the catalog; the engine only
// derives state and the open-order binding.
type TableInfo struct {
	ID     uint64 `json:"id"`
	Number uint32 `json:"number"`
	AreaID uint64 `json:"area_id"`
}

// TableCatalog looks tables up in the external catalog.  Implementations
// must return ErrTableNotFound (possibly wrapped) for unknown ids.  The
// engine never writes to the catalog.
type TableCatalog interface {
	GetTable(ctx context.Context, tableID uint64) (TableInfo, error)
}

// TableRegistry maps each table to at most one order in Draft or Open and
// derives the Free/Occupied table state from order transitions.  It is a
// constructed aggregate owned by the process: build one at service start
// and inject it into whatever needs it.
type TableRegistry struct {
	mu       sync.Mutex
	catalog  TableCatalog
	notify   Notifier
	adjust   AdjustmentFunc
	lockWait time.Duration

	open     map[uint64]*Order // tableID -> order in {Draft, Open}
	occupied map[uint64]bool   // tableID -> table currently Occupied
	nextID   uint64
}

// NewTableRegistry builds a registry over the given table catalog.  notify
// may be nil to disable events, adjust may be nil for the identity
// adjustment, and lockWait <= 0 selects DefaultLockWait for the per-order
// locks.
func NewTableRegistry(catalog TableCatalog, notify Notifier, adjust AdjustmentFunc, lockWait time.Duration) *TableRegistry {
	return &TableRegistry{
		catalog:  catalog,
		notify:   notify,
		adjust:   adjust,
		lockWait: lockWait,
		open:     make(map[uint64]*Order),
		occupied: make(map[uint64]bool),
	}
}

// OpenOrCreateOrder returns the table's existing Draft/Open order or
// creates a fresh Draft order bound to it.  The table id is validated
// against the catalog before a new order is created; unknown ids fail with
// ErrTableNotFound.
func (r *TableRegistry) OpenOrCreateOrder(ctx context.Context, tableID uint64) (*Order, error) {
	r.mu.Lock()
	if o, ok := r.open[tableID]; ok {
		r.mu.Unlock()
		return o, nil
	}
	r.mu.Unlock()

	// Catalog lookup happens outside the registry lock: it may hit the
	// database and must not stall unrelated tables.
	if _, err := r.catalog.GetTable(ctx, tableID); err != nil {
		return nil, fmt.Errorf("table lookup: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.open[tableID]; ok {
		// Lost the race to another terminal; its order wins.
		return o, nil
	}
	r.nextID++
	o := newOrder(r.nextID, tableID, r, r.notify, r.adjust, r.lockWait)
	r.open[tableID] = o
	return o, nil
}

// GetOpenOrder returns the table's order in Draft/Open, or nil when the
// table has none.
func (r *TableRegistry) GetOpenOrder(tableID uint64) *Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.open[tableID]
}

// FindOrder returns the open order with the given id, or nil when no
// Draft/Open order carries it.  Closed and cancelled orders leave the
// registry and are only reachable through the archive.
func (r *TableRegistry) FindOrder(orderID uint64) *Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.open {
		if o.id == orderID {
			return o
		}
	}
	return nil
}

// TableState returns the derived state of a table: Occupied from the first
// confirmed cart until close or cancel, Free otherwise.  An unconfirmed
// Draft order does not occupy its table.
func (r *TableRegistry) TableState(tableID uint64) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.occupied[tableID] {
		return TableOccupied
	}
	return TableFree
}

// OpenOrders returns the open order of every table that has one, for the
// table board projection.
func (r *TableRegistry) OpenOrders() map[uint64]*Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uint64]*Order, len(r.open))
	for tableID, o := range r.open {
		out[tableID] = o
	}
	return out
}

// markOccupied and markFree implement tableStateSink.  They are called
// only by order transitions; table state is fully derived and external
// callers have no way to set it.

func (r *TableRegistry) markOccupied(tableID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.occupied[tableID] = true
}

func (r *TableRegistry) markFree(tableID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.occupied, tableID)
	delete(r.open, tableID)
}
