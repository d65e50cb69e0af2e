package core

import "github.com/pkg/errors"

// FieldError carries a per-field message inside a ValidationError.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a business-rule violation raised by the domain
// services. The API layer renders it as a 400, with the field breakdown
// when one is attached.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown marks errors the app cannot serve through, such as a lost
// database connection. The API error handler stops the app when it sees one.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

// IsShutdown reports whether err, or its cause, requires the app to stop.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
