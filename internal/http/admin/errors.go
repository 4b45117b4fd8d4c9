package admin

import (
	"errors"
	"net/http"

	"github.com/bintangmas1/app-point/internal/backup"
	"github.com/bintangmas1/app-point/internal/customer"
	"github.com/bintangmas1/app-point/internal/ledger"
	"github.com/bintangmas1/app-point/internal/session"
	"github.com/bintangmas1/app-point/internal/worker"
)

// ValidationError reports bad input on one field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

var errForbidden = errors.New("not allowed for this account")

// StatusCode maps a service error to the HTTP status the API answers with.
func StatusCode(err error) int {
	var ve *ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, worker.ErrInvalidCredentials), errors.Is(err, session.ErrNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, errForbidden):
		return http.StatusForbidden
	case errors.Is(err, customer.ErrNotFound), errors.Is(err, worker.ErrNotFound), errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, customer.ErrDuplicateName), errors.Is(err, worker.ErrDuplicateUsername), errors.Is(err, ledger.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInsufficientBalance), errors.Is(err, ledger.ErrInvalidAmount):
		return http.StatusUnprocessableEntity
	case errors.Is(err, backup.ErrUnsupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// PublicMessage is the error text safe to show to staff. Unexpected
// errors collapse to a generic message; the caller logs the detail.
func PublicMessage(err error) string {
	switch StatusCode(err) {
	case http.StatusInternalServerError:
		var pe *ledger.PersistenceError
		if errors.As(err, &pe) {
			return ledger.Message(err)
		}
		return "Something went wrong, please try again"
	case http.StatusNotFound:
		switch {
		case errors.Is(err, worker.ErrNotFound):
			return "Worker not found"
		default:
			return "Customer not found"
		}
	case http.StatusConflict:
		switch {
		case errors.Is(err, customer.ErrDuplicateName):
			return "A customer with this name already exists"
		case errors.Is(err, worker.ErrDuplicateUsername):
			return "This username is already taken"
		}
	case http.StatusUnauthorized:
		if errors.Is(err, worker.ErrInvalidCredentials) {
			return "Invalid username or password"
		}
		return "Please sign in again"
	}
	return ledger.Message(err)
}
