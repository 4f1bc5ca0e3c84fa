package model

import "time"

// Area is a physical section of the restaurant floor (hall, terrace,
// bar).  Tables are grouped by area for the table board.
//
// Fields:
//
//	ID        – primary key identifier.
//	Name      – area display name.
//	CreatedAt – creation timestamp.
type Area struct {
	ID        uint64    `json:"id"`   // areas.id
	Name      string    `json:"name"` // areas.name
	CreatedAt time.Time `json:"-"`    // areas.created_at
}

// Table is a physical table from the catalog.  Identity, numbering and
// seating capacity are owned here; the Free/Occupied state is NOT stored —
// it is derived by the order engine from the table's open order.
//
// Fields:
//
//	ID        – primary key identifier.
//	AreaID    – area the table stands in.
//	Number    – human-facing table number, unique within the area.
//	Seats     – seating capacity.
//	IsActive  – whether the table is currently in service.
//	CreatedAt – creation timestamp.
type Table struct {
	ID        uint64    `json:"id"`        // tables.id
	AreaID    uint64    `json:"area_id"`   // tables.area_id
	Number    uint32    `json:"number"`    // tables.number
	Seats     uint32    `json:"seats"`     // tables.seats
	IsActive  bool      `json:"is_active"` // tables.is_active
	CreatedAt time.Time `json:"-"`         // tables.created_at
}
