package domain

import "fmt"

// ErrorKind classifies publish failures. Configuration, validation,
// compilation and record-creation errors abort the call; taxonomy errors are
// collected into an otherwise successful result.
type ErrorKind string

const (
	ErrConfiguration  ErrorKind = "configuration"
	ErrValidation     ErrorKind = "validation"
	ErrCompilation    ErrorKind = "compilation"
	ErrRecordCreation ErrorKind = "record_creation"
	ErrTaxonomy       ErrorKind = "taxonomy"
)

// PublishError carries the failure classification across the publish pipeline.
type PublishError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *PublishError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *PublishError) Unwrap() error { return e.Err }

// NewError builds a PublishError without a cause.
func NewError(kind ErrorKind, format string, args ...any) *PublishError {
	return &PublishError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WrapError builds a PublishError around an underlying cause.
func WrapError(kind ErrorKind, err error, format string, args ...any) *PublishError {
	return &PublishError{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// ErrMissingName is the single hard validation failure of the normalizer.
var ErrMissingName = NewError(ErrValidation, "recipe name is required")
