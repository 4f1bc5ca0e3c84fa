// Package repository provides read access to the menu and floor catalog
// stored in MySQL, staff account lookups, and the archive adapter that
// persists finalized orders.  The order engine itself never touches the
// database; these repositories feed it on the way in (catalog lookups)
// and drain it on the way out (archiving closed snapshots).
package repository

import "errors"

// ErrProductNotFound is returned when a product id is unknown or the
// product is inactive.  Handlers should translate this into an HTTP 404.
var ErrProductNotFound = errors.New("product not found")

// ErrUserNotFound is returned when no staff account matches the given
// username.  Handlers should translate this into a generic 401 rather
// than leaking which usernames exist.
var ErrUserNotFound = errors.New("user not found")
