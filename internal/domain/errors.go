package domain

import "fmt"

// InputError reports malformed user input. The operation is abandoned
// without touching the store.
type InputError struct {
	Field string
	Value string
	Err   error
}

func NewInputError(field, value string, err error) *InputError {
	return &InputError{Field: field, Value: value, Err: err}
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// ConstraintError reports a write the record store rejected.
type ConstraintError struct {
	Err error
}

func NewConstraintError(err error) *ConstraintError {
	return &ConstraintError{Err: err}
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("record rejected by store: %v", e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// StoreError reports any other store failure. Read paths treat it as
// "no results".
type StoreError struct {
	Op  string
	Err error
}

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
