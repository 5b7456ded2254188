package ledger

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by ValidationError.
var (
	ErrEmptyName      = errors.New("ledger: name must not be empty")
	ErrNegativeAmount = errors.New("ledger: amount must not be negative")
	ErrDuplicateKey   = errors.New("ledger: duplicate key")
)

// ValidationError reports a rejected mutation. State is left unchanged.
type ValidationError struct {
	Op    string // Operation that was rejected (e.g. "AddParticipant")
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %v", e.Op, e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(op, field string, err error) error {
	return &ValidationError{Op: op, Field: field, Err: err}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
