package primary

import (
	"errors"
	"fmt"

	"github.com/example/backoffice/internal/core/formerrors"
)

var (
	// ErrForbidden is returned when the actor may not perform an operation.
	ErrForbidden = errors.New("forbidden")

	// ErrDuplicateSubmission is returned when a form was already submitted.
	ErrDuplicateSubmission = errors.New("duplicate submission")

	// ErrUnauthenticated is returned when no valid session exists.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotFound is returned when the claim or agreement does not exist.
	ErrNotFound = errors.New("not found")
)

// ValidationError carries field errors back to the originating form.
type ValidationError struct {
	Errors []formerrors.FieldError
	// QueryFlag reopens the form the errors belong to.
	QueryFlag string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", e.Errors[0].Text)
}

// ForbiddenError wraps ErrForbidden with the guard reason.
func ForbiddenError(reason string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, reason)
}
