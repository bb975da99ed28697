// Package store contains the data-access layer: one repository per entity,
// each a thin wrapper over parameterized SQL against the shared *sql.DB.
package store

import "errors"

// ErrNotFound is returned by lookups when no row matches. Handlers map it
// to the 404 page.
var ErrNotFound = errors.New("not found")
