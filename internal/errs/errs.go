// Package errs is the error taxonomy shared by the aggregator, its sources and
// the HTTP layer.
package errs

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

type ErrorType string

const (
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypeInvalidInput ErrorType = "INVALID_INPUT"
	ErrTypeInternal     ErrorType = "INTERNAL"
	ErrTypeUnavailable  ErrorType = "UNAVAILABLE"
	ErrTypeBlocked      ErrorType = "BLOCKED"
	ErrTypeDisabled     ErrorType = "DISABLED"
	ErrTypeRateLimit    ErrorType = "RATE_LIMIT"
	ErrTypeConflict     ErrorType = "CONFLICT"
)

type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Stack   []byte
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) StackTrace() []byte {
	return e.Stack
}

func New(errType ErrorType, message string, err error) *DomainError {
	var stack []byte
	if err != nil {
		if stackErr, ok := err.(*goerrors.Error); ok {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

func NotFound(message string, err error) *DomainError {
	return New(ErrTypeNotFound, message, err)
}

func InvalidInput(message string, err error) *DomainError {
	return New(ErrTypeInvalidInput, message, err)
}

func Internal(message string, err error) *DomainError {
	return New(ErrTypeInternal, message, err)
}

func Unavailable(message string, err error) *DomainError {
	return New(ErrTypeUnavailable, message, err)
}

// Blocked marks a response that is a bot challenge rather than content.
func Blocked(message string, err error) *DomainError {
	return New(ErrTypeBlocked, message, err)
}

func Disabled(message string, err error) *DomainError {
	return New(ErrTypeDisabled, message, err)
}

func RateLimit(message string, err error) *DomainError {
	return New(ErrTypeRateLimit, message, err)
}

// Conflict reports work that collides with something already in progress.
func Conflict(message string, err error) *DomainError {
	return New(ErrTypeConflict, message, err)
}

// TypeOf returns the type of the first DomainError in err's chain, or "".
func TypeOf(err error) ErrorType {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type
	}
	return ""
}

func Is(err error, t ErrorType) bool {
	return err != nil && TypeOf(err) == t
}

// Retryable reports whether repeating the same call could plausibly succeed.
// Untyped errors count as transient.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	switch TypeOf(err) {
	case ErrTypeBlocked, ErrTypeInvalidInput, ErrTypeDisabled, ErrTypeNotFound, ErrTypeConflict:
		return false
	default:
		return true
	}
}
