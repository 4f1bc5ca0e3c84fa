package model

import "time"

// Product is a sellable menu item from the catalog.  The catalog is a
// read-only collaborator of the order engine: prices are captured onto
// line items at add time and never recomputed from here.
//
// Fields:
//
//	ID          – primary key identifier.
//	CategoryID  – menu category the product belongs to.
//	Name        – display name shown on terminals and receipts.
//	PriceCents  – unit price in minor currency units.
//	Description – optional free-text description.
//	IsActive    – whether the product is currently orderable.
//	Groups      – modifier groups attached to the product.
//	CreatedAt   – creation timestamp.
//	UpdatedAt   – last update timestamp.
type Product struct {
	ID          uint64          `json:"id"`           // products.id
	CategoryID  uint64          `json:"category_id"`  // products.category_id
	Name        string          `json:"name"`         // products.name
	PriceCents  int64           `json:"price_cents"`  // products.price_cents
	Description *string         `json:"description"`  // products.description (nullable)
	IsActive    bool            `json:"is_active"`    // products.is_active
	Groups      []ModifierGroup `json:"modifier_groups,omitempty"`
	CreatedAt   time.Time       `json:"-"` // products.created_at
	UpdatedAt   time.Time       `json:"-"` // products.updated_at
}

// ModifierGroup is a set of options a product can be customized with,
// e.g. "Size" (single select) or "Extras" (multi select).
//
// Fields:
//
//	ID          – primary key identifier.
//	ProductID   – product the group belongs to.
//	Name        – group display name.
//	MultiSelect – whether several options may be chosen at once.
//	Required    – whether at least one option must be chosen.
//	Options     – the selectable options.
type ModifierGroup struct {
	ID          uint64           `json:"id"`           // modifier_groups.id
	ProductID   uint64           `json:"product_id"`   // modifier_groups.product_id
	Name        string           `json:"name"`         // modifier_groups.name
	MultiSelect bool             `json:"multi_select"` // modifier_groups.multi_select
	Required    bool             `json:"required"`     // modifier_groups.required
	Options     []ModifierOption `json:"options,omitempty"`
}

// ModifierOption is one selectable option within a modifier group.
//
// Fields:
//
//	ID         – primary key identifier.
//	GroupID    – owning modifier group.
//	Name       – option display name.
//	PriceCents – surcharge in minor units added to the unit price when
//	             the option is selected (zero for free options).
type ModifierOption struct {
	ID         uint64 `json:"id"`          // modifier_options.id
	GroupID    uint64 `json:"group_id"`    // modifier_options.group_id
	Name       string `json:"name"`        // modifier_options.name
	PriceCents int64  `json:"price_cents"` // modifier_options.price_cents
}
