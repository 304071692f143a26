package billing

import (
	"errors"
	"fmt"
)

var (
	ErrValidationFailed  = errors.New("billing: validation failed")
	ErrImmutableLineItem = errors.New("billing: line item cannot be removed")
	ErrInvoiceCancelled  = errors.New("billing: invoice is cancelled")
	ErrNotFound          = errors.New("billing: invoice not found")
)

// ValidationError collects messages per input field.
type ValidationError struct {
	fields map[string][]string
}

func newValidationError() *ValidationError {
	return &ValidationError{fields: make(map[string][]string)}
}

func IsValidationError(err error) *ValidationError {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

func (e *ValidationError) add(field, msg string) {
	e.fields[field] = append(e.fields[field], msg)
}

func (e *ValidationError) count() int { return len(e.fields) }

func (e *ValidationError) orNil() error {
	if e.count() == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %+v", ErrValidationFailed, e.fields)
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

func (e *ValidationError) Fields() map[string][]string { return e.fields }
