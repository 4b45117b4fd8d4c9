package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("customer not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrConflict            = errors.New("balance changed by another request")
	ErrInvalidAmount       = errors.New("points must be a positive whole number")
)

// PersistenceError wraps a failure of the underlying record store.
type PersistenceError struct {
	Op  string // "read" or "write"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("points %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Message renders err as the text shown to staff.
func Message(err error) string {
	var pe *PersistenceError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientBalance):
		return ErrInsufficientBalance.Error()
	case errors.Is(err, ErrNotFound):
		return ErrNotFound.Error()
	case errors.Is(err, ErrInvalidAmount):
		return ErrInvalidAmount.Error()
	case errors.Is(err, ErrConflict):
		return "the balance was changed by someone else, please try again"
	case errors.As(err, &pe):
		return "could not update points, please try again"
	}
	return err.Error()
}
