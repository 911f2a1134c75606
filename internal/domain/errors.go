package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals caller input the listing path refuses to run with.
	ErrValidation = errors.New("validation failed")
	// ErrInternalConsistency signals a broken invariant between two store round trips.
	ErrInternalConsistency = errors.New("internal consistency violation")
	// ErrStore signals a failed store call. Concrete failures are *StoreError.
	ErrStore = errors.New("store error")
)

// Validationf builds an error that matches ErrValidation.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// StoreErrorKind classifies a store failure.
type StoreErrorKind int

// Store error kinds.
const (
	StoreUnknown StoreErrorKind = iota
	StoreConnectionFailure
	StoreConstraintViolation
	StoreTimeout
)

func (k StoreErrorKind) String() string {
	switch k {
	case StoreConnectionFailure:
		return "connection_failure"
	case StoreConstraintViolation:
		return "constraint_violation"
	case StoreTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// StoreError is returned by every listing store backend.
type StoreError struct {
	Kind StoreErrorKind
	Op   string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrStore) match any StoreError.
func (e *StoreError) Is(target error) bool { return target == ErrStore }

// NewStoreError creates a classified store error.
func NewStoreError(kind StoreErrorKind, op string, err error) error {
	return &StoreError{Kind: kind, Op: op, Err: err}
}

// StoreKindOf returns the kind of the first StoreError in err's chain.
func StoreKindOf(err error) (StoreErrorKind, bool) {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return StoreUnknown, false
}
