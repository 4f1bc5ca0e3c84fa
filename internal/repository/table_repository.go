package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/pos"
)

// TableRepo reads the floor catalog: areas and tables.  It also acts as
// the engine's TableCatalog collaborator via GetTable, translating missing
// rows into pos.ErrTableNotFound.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a new TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// GetTable implements pos.TableCatalog for the registry.  Unknown or
// inactive tables fail with pos.ErrTableNotFound.
func (r *TableRepo) GetTable(ctx context.Context, tableID uint64) (pos.TableInfo, error) {
	const q = `SELECT id, area_id, number FROM tables WHERE id = ? AND is_active = 1`
	var info pos.TableInfo
	err := r.db.QueryRowContext(ctx, q, tableID).Scan(&info.ID, &info.AreaID, &info.Number)
	if errors.Is(err, sql.ErrNoRows) {
		return pos.TableInfo{}, fmt.Errorf("table %d: %w", tableID, pos.ErrTableNotFound)
	}
	if err != nil {
		return pos.TableInfo{}, err
	}
	return info, nil
}

// ListAll returns every active table ordered by area and number, for the
// table board.
func (r *TableRepo) ListAll(ctx context.Context) ([]model.Table, error) {
	const q = `SELECT id, area_id, number, seats, is_active, created_at
               FROM tables WHERE is_active = 1 ORDER BY area_id, number`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tables []model.Table
	for rows.Next() {
		var t model.Table
		if err := rows.Scan(&t.ID, &t.AreaID, &t.Number, &t.Seats, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

// ListAreas returns all areas ordered by name.
func (r *TableRepo) ListAreas(ctx context.Context) ([]model.Area, error) {
	const q = `SELECT id, name, created_at FROM areas ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var areas []model.Area
	for rows.Next() {
		var a model.Area
		if err := rows.Scan(&a.ID, &a.Name, &a.CreatedAt); err != nil {
			return nil, err
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}
