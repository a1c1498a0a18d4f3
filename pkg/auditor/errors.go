package auditor

import (
	"errors"
	"fmt"

	"github.com/helmcode/hotel-audit/pkg/model"
)

var (
	ErrInvalidInput       = errors.New("invalid audit input")
	ErrServiceUnavailable = errors.New("audit service unavailable")
	ErrEmptyResponse      = errors.New("audit service returned an empty response")
	ErrCorruptedData      = errors.New("audit data corrupted")
)

// ValidationError carries one message per rejected input field.
type ValidationError struct {
	Fields model.FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Fields.Error())
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Retryable reports whether re-issuing the same request may succeed.
// Invalid input never is.
func Retryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrEmptyResponse) ||
		errors.Is(err, ErrCorruptedData)
}

// UserMessage turns an audit error into the text shown to the user.
func UserMessage(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return "Incomplete data: " + verr.Fields.Error()
	case errors.Is(err, ErrCorruptedData):
		return "Audit data corrupted: the audit engine did not return a readable report. Please retry."
	case errors.Is(err, ErrEmptyResponse):
		return "The audit engine returned no data. Please try again in a few seconds."
	case errors.Is(err, ErrServiceUnavailable):
		return "The audit request failed due to a network error. Please try again in a few seconds."
	default:
		return err.Error()
	}
}
