package pos

// Cents is a money amount expressed in minor currency units (e.g. cents,
// tiyin).  All monetary arithmetic in the engine happens on this integer
// type; floating point never enters the money path so totals cannot drift.
type Cents int64

// LineTotal returns the cost of qty units at the given unit price.
func LineTotal(unit Cents, qty int) Cents {
	return unit * Cents(qty)
}
