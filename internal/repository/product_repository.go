package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/restaurant-pos/internal/model"
)

// ProductRepo reads the menu catalog: products together with their
// modifier groups and options.  The catalog is read-only to this service;
// menu management happens elsewhere.
type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo returns a new ProductRepo bound to the given database.
func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

// GetByID returns one active product with its modifier groups and options
// populated.  Returns ErrProductNotFound for unknown or inactive ids.
func (r *ProductRepo) GetByID(ctx context.Context, productID uint64) (*model.Product, error) {
	const q = `SELECT id, category_id, name, price_cents, description, is_active, created_at, updated_at
               FROM products WHERE id = ? AND is_active = 1`
	var p model.Product
	var desc sql.NullString
	err := r.db.QueryRowContext(ctx, q, productID).Scan(
		&p.ID, &p.CategoryID, &p.Name, &p.PriceCents, &desc, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", productID, ErrProductNotFound)
	}
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		p.Description = &d
	}
	groups, err := r.loadGroups(ctx, []uint64{p.ID})
	if err != nil {
		return nil, err
	}
	p.Groups = groups[p.ID]
	return &p, nil
}

// ListActive returns every active product with modifier groups attached,
// ordered by category then name, for the menu projection.
func (r *ProductRepo) ListActive(ctx context.Context) ([]model.Product, error) {
	const q = `SELECT id, category_id, name, price_cents, description, is_active, created_at, updated_at
               FROM products WHERE is_active = 1 ORDER BY category_id, name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []model.Product
	var ids []uint64
	for rows.Next() {
		var p model.Product
		var desc sql.NullString
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.PriceCents, &desc, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if desc.Valid {
			d := desc.String
			p.Description = &d
		}
		products = append(products, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	groups, err := r.loadGroups(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].Groups = groups[products[i].ID]
	}
	return products, nil
}

// loadGroups fetches the modifier groups and options for the given
// products in two queries and assembles them in memory, keyed by product.
func (r *ProductRepo) loadGroups(ctx context.Context, productIDs []uint64) (map[uint64][]model.ModifierGroup, error) {
	out := make(map[uint64][]model.ModifierGroup)
	if len(productIDs) == 0 {
		return out, nil
	}
	in, args := placeholders(productIDs)

	gq := `SELECT id, product_id, name, multi_select, required FROM modifier_groups WHERE product_id IN (` + in + `) ORDER BY id`
	rows, err := r.db.QueryContext(ctx, gq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byGroup := make(map[uint64]*model.ModifierGroup)
	var groupIDs []uint64
	for rows.Next() {
		var g model.ModifierGroup
		if err := rows.Scan(&g.ID, &g.ProductID, &g.Name, &g.MultiSelect, &g.Required); err != nil {
			return nil, err
		}
		out[g.ProductID] = append(out[g.ProductID], g)
		groupIDs = append(groupIDs, g.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Index the appended copies so options land in the right slice slot.
	for pid := range out {
		for i := range out[pid] {
			byGroup[out[pid][i].ID] = &out[pid][i]
		}
	}
	if len(groupIDs) == 0 {
		return out, nil
	}

	in, args = placeholders(groupIDs)
	oq := `SELECT id, group_id, name, price_cents FROM modifier_options WHERE group_id IN (` + in + `) ORDER BY id`
	orows, err := r.db.QueryContext(ctx, oq, args...)
	if err != nil {
		return nil, err
	}
	defer orows.Close()
	for orows.Next() {
		var o model.ModifierOption
		if err := orows.Scan(&o.ID, &o.GroupID, &o.Name, &o.PriceCents); err != nil {
			return nil, err
		}
		if g, ok := byGroup[o.GroupID]; ok {
			g.Options = append(g.Options, o)
		}
	}
	return out, orows.Err()
}

// placeholders builds a "?, ?, ..." fragment and the matching args slice
// for an IN clause.
func placeholders(ids []uint64) (string, []interface{}) {
	frag := ""
	args := make([]interface{}, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			frag += ", "
		}
		frag += "?"
		args = append(args, id)
	}
	return frag, args
}
