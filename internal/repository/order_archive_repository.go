package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/iliyamo/restaurant-pos/internal/pos"
)

// OrderArchiveRepo persists finalized (closed or cancelled) order
// snapshots.  The engine keeps live orders in memory only; this repository
// is the external store adapter that writes the history once an order
// leaves the floor.  Archive failures must never undo a close — callers
// log them and move on.
type OrderArchiveRepo struct {
	db *sql.DB
}

// NewOrderArchiveRepo returns a new OrderArchiveRepo bound to the given
// database.
func NewOrderArchiveRepo(db *sql.DB) *OrderArchiveRepo { return &OrderArchiveRepo{db: db} }

// Archive inserts the snapshot and its lines in one transaction.
// closedBy records the staff account that finalized the order.
func (r *OrderArchiveRepo) Archive(ctx context.Context, snap pos.OrderSnapshot, closedBy uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var method sql.NullString
	var tendered, change sql.NullInt64
	if snap.Payment != nil {
		method = sql.NullString{String: snap.Payment.Method, Valid: true}
		tendered = sql.NullInt64{Int64: int64(snap.Payment.Tendered), Valid: true}
		change = sql.NullInt64{Int64: int64(snap.Payment.Change), Valid: true}
	}
	const q = `INSERT INTO archived_orders
               (receipt_ref, engine_order_id, table_id, status, subtotal_cents, total_cents,
                payment_method, tendered_cents, change_cents, opened_at, closed_at, closed_by)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		snap.ReceiptRef, snap.ID, snap.TableID, snap.Status,
		int64(snap.Subtotal), int64(snap.Total),
		method, tendered, change,
		snap.OpenedAt, snap.ClosedAt, closedBy,
	)
	if err != nil {
		return err
	}
	archiveID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	if len(snap.Lines) > 0 {
		query := `INSERT INTO archived_order_items
                  (archive_id, product_id, name, unit_price_cents, quantity, modifiers, note, added_at) VALUES `
		args := make([]interface{}, 0, len(snap.Lines)*8)
		for i, li := range snap.Lines {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?, ?, ?, ?)"
			mods, err := json.Marshal(li.Selection)
			if err != nil {
				return err
			}
			args = append(args, archiveID, li.ProductID, li.Name, int64(li.UnitPrice), li.Quantity, string(mods), li.Note, li.AddedAt)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
