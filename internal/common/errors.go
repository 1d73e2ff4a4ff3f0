package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
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
	// ErrCapabilityUnavailable means a required external binding (the OCR
	// toolchain or the message store root) is absent from the environment.
	// Fatal to the whole run, surfaced once at startup.
	ErrCapabilityUnavailable = errors.New("capability unavailable")

	// ErrFolderResolution means a configured folder path could not be
	// resolved inside the message store. Fatal to the run.
	ErrFolderResolution = errors.New("folder resolution failed")

	// ErrExtraction means a single document could not be rendered or
	// recognized. Absorbed at the item boundary.
	ErrExtraction = errors.New("extraction failed")

	// ErrPlacement means a filesystem move or directory creation failed
	// for one attachment. Absorbed at the item boundary.
	ErrPlacement = errors.New("placement failed")

	ErrInvalidInput = errors.New("invalid input")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
