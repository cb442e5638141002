package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code      string
	Message   string
	Cause     error
	Retryable bool
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrCorruptDocument = errors.New("document unreadable or corrupt")
	ErrNoPages         = errors.New("extraction produced no pages")
	ErrUnsupported     = errors.New("unsupported document structure")
	ErrTempSpace       = errors.New("insufficient temporary storage space")
	ErrInvalidInput    = errors.New("invalid input")
	ErrProvider        = errors.New("provider unavailable")
)

// NewAppError builds a non-retryable AppError.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewRetryableError builds an AppError for transient failures (OCR provider
// outages, renderer hiccups) that the caller may safely retry.
func NewRetryableError(code, message string, cause error) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: true,
	}
}

// Retryable reports whether err carries a retryability signal. Corrupt or
// structurally unsupported documents are terminal; transient provider
// failures are retryable.
func Retryable(err error) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Retryable
	}
	if errors.Is(err, ErrCorruptDocument) || errors.Is(err, ErrUnsupported) || errors.Is(err, ErrInvalidInput) {
		return false
	}
	return errors.Is(err, ErrProvider)
}

// WrapError wraps err with a message, passing nil through.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
