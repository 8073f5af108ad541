package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	ErrUnsupportedType  = errors.New("unsupported file type")
	ErrFileTooLarge     = errors.New("file too large")
	ErrInsufficientText = errors.New("insufficient text")
	ErrExtractionFailed = errors.New("extraction failed")

	ErrRateLimited       = errors.New("provider rate limited")
	ErrUnauthorized      = errors.New("provider unauthorized")
	ErrNetwork           = errors.New("provider network error")
	ErrTimeout           = errors.New("provider timeout")
	ErrMalformedResponse = errors.New("malformed provider response")
	ErrProvider          = errors.New("provider error")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// InputError is a user-correctable failure. Message is safe to return to the caller.
type InputError struct {
	Kind    error
	Message string
	Err     error
}

func NewInputError(kind error, message string, cause error) *InputError {
	return &InputError{Kind: kind, Message: message, Err: cause}
}

func (e *InputError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *InputError) Unwrap() []error {
	out := []error{ErrInvalidInput}
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// AsInputError reports the user-facing input failure carried by err, if any.
func AsInputError(err error) (*InputError, bool) {
	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return inputErr, true
	}
	return nil, false
}
