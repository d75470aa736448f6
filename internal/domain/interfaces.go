package domain

import "context"

// RecordStore defines the interface for employee data access
type RecordStore interface {
	// CreateSchema ensures the employees table (or backend equivalent) exists.
	// Calling it again is a no-op.
	CreateSchema(ctx context.Context) error
	// Insert stores one record and returns its assigned id. A rejected row
	// yields a *ConstraintError.
	Insert(ctx context.Context, e NewEmployee) (int64, error)
	// Query returns the records selected by p. Matches come back in store
	// order; ordering predicates sort ascending with no secondary key.
	Query(ctx context.Context, p Predicate) ([]Employee, error)
	Close() error
}
