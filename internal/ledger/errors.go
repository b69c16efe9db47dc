package ledger

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the ledger and the services built on
// it matches exactly one of these with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrValidation         = errors.New("validation failed")
	ErrMalformedSnapshot  = errors.New("malformed snapshot")
)

var (
	ErrDuplicatePeriod      = fmt.Errorf("%w: payment already recorded for this lease and period", ErrConflict)
	ErrAlreadyPaid          = fmt.Errorf("%w: payment is already paid", ErrConflict)
	ErrReceiptAlreadyExists = fmt.Errorf("%w: a receipt was already issued for this payment", ErrConflict)
	ErrLeaseOverlap         = fmt.Errorf("%w: lease overlaps another lease on the unit", ErrConflict)
	ErrInUse                = fmt.Errorf("%w: still referenced", ErrConflict)
	ErrPaymentNotSettled    = fmt.Errorf("%w: payment is not paid", ErrPreconditionFailed)
)

type NotFoundError struct {
	Entity string
	ID     string
}

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

type ValidationError struct {
	Field  string
	Reason string
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type SnapshotError struct {
	Reason string
}

func Malformed(format string, args ...any) error {
	return &SnapshotError{Reason: fmt.Sprintf(format, args...)}
}

func (e *SnapshotError) Error() string {
	return "malformed snapshot: " + e.Reason
}

func (e *SnapshotError) Is(target error) bool {
	return target == ErrMalformedSnapshot
}

// InUse reports that an entity cannot be deleted while something references it.
func InUse(entity, referencedBy string) error {
	return fmt.Errorf("%s is referenced by %s: %w", entity, referencedBy, ErrInUse)
}

// Kind maps an error onto its snake_case taxonomy name, or "internal".
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrPreconditionFailed):
		return "precondition_failed"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrMalformedSnapshot):
		return "malformed_snapshot"
	default:
		return "internal"
	}
}
