package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrBadRequest         = errors.New("invalid request")
	ErrInternalServer     = errors.New("internal server error")
	ErrDatabaseConnection = errors.New("database connection failed")
	ErrUnknownColumn      = errors.New("unknown column")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMessagingDisabled  = errors.New("messaging is not configured")
	ErrMessageRejected    = errors.New("message rejected by provider")
	ErrDeliveryLogOff     = errors.New("delivery log is not configured")

	ErrConfigFileReadFailed = errors.New("failed to read config file")
	ErrConfigParseFailed    = errors.New("failed to parse config file")
	ErrConfigInvalidFormat  = errors.New("invalid config value")

	ErrInvalidGzipRequest    = errors.New("invalid gzip request body")
	ErrGzipCompressionFailed = errors.New("gzip compression failed")
)

// FieldError is one rejected field of a validation pass.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// ValidationErrors is the outcome of a failed validation pass. It holds at
// most one entry per field.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field already carries a failure.
func (v ValidationErrors) Has(field string) bool {
	for _, fe := range v {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Reason returns the recorded reason for field, or "".
func (v ValidationErrors) Reason(field string) string {
	for _, fe := range v {
		if fe.Field == field {
			return fe.Reason
		}
	}
	return ""
}

// NewValidationError builds a single-field failure.
func NewValidationError(field, reason string) ValidationErrors {
	return ValidationErrors{{Field: field, Reason: reason}}
}

// IntegrityError is a store-level rejection: a duplicate unique key, a
// dangling or still-referenced foreign key, or a violated column constraint.
type IntegrityError struct {
	Table      string
	Constraint string
	Reason     string
	Err        error
}

func (e *IntegrityError) Error() string {
	msg := e.Reason
	if e.Constraint != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Constraint)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *IntegrityError) Unwrap() error { return e.Err }

// IsValidation reports whether err carries a ValidationErrors.
func IsValidation(err error) bool {
	var verrs ValidationErrors
	return errors.As(err, &verrs)
}

// IsIntegrity reports whether err carries an IntegrityError.
func IsIntegrity(err error) bool {
	var ierr *IntegrityError
	return errors.As(err, &ierr)
}

// Is, As and New mirror the standard library so callers importing this
// package under the name "errors" keep access to them.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

func New(text string) error { return errors.New(text) }
