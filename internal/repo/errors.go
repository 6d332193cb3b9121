package repo

import "errors"

// ErrNotFound is returned when a query matches no row. Callers translate it
// into their own domain outcome.
var ErrNotFound = errors.New("not found")
