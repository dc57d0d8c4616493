package repositories

import "errors"

var (
	// ErrDatabaseNotAvailable is returned by every write on an unconfigured
	// relational store, and by every call on a legacy store whose
	// availability probe failed at construction.
	ErrDatabaseNotAvailable = errors.New("database not available")

	// ErrUnknownField is returned when a partial update names a field missing
	// from the adapter's column table.
	ErrUnknownField = errors.New("unknown entity field in partial update")

	// ErrEmptyUpdate is returned when a partial update carries no fields.
	ErrEmptyUpdate = errors.New("partial update carries no fields")
)
