package common

import (
	"fmt"

	"github.com/pkg/errors"
)

// InvalidArgumentError indicates that a caller supplied a missing or malformed value.
type InvalidArgumentError struct {
	message string
}

// Error returns the error message for an InvalidArgumentError.
func (e InvalidArgumentError) Error() string {
	return e.message
}

// NewInvalidArgumentError returns a new error indicating that an argument was missing or invalid.
func NewInvalidArgumentError(formatString string, a ...interface{}) InvalidArgumentError {
	return InvalidArgumentError{message: fmt.Sprintf(formatString, a...)}
}

// StorageUnavailableError indicates a transient fault in one of the backing stores. Callers may retry the
// operation; nothing in this service does so on their behalf.
type StorageUnavailableError struct {
	message string
	cause   error
}

// Error returns the error message for a StorageUnavailableError.
func (e StorageUnavailableError) Error() string {
	if e.cause == nil {
		return e.message
	}
	return fmt.Sprintf("%s: %s", e.message, e.cause.Error())
}

// Unwrap returns the underlying storage error.
func (e StorageUnavailableError) Unwrap() error {
	return e.cause
}

// NewStorageUnavailableError returns a new error marking cause as a transient storage fault.
func NewStorageUnavailableError(cause error, formatString string, a ...interface{}) StorageUnavailableError {
	return StorageUnavailableError{message: fmt.Sprintf(formatString, a...), cause: cause}
}

// NotFoundError indicates that a single-ID lookup found nothing.
type NotFoundError struct {
	message string
}

// Error returns the error message for a NotFoundError.
func (e NotFoundError) Error() string {
	return e.message
}

// NewNotFoundError returns a new error indicating that the requested item doesn't exist.
func NewNotFoundError(formatString string, a ...interface{}) NotFoundError {
	return NotFoundError{message: fmt.Sprintf(formatString, a...)}
}

// IsInvalidArgument returns true if err or anything it wraps is an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var target InvalidArgumentError
	return errors.As(err, &target)
}

// IsStorageUnavailable returns true if err or anything it wraps is a StorageUnavailableError.
func IsStorageUnavailable(err error) bool {
	var target StorageUnavailableError
	return errors.As(err, &target)
}

// IsNotFound returns true if err or anything it wraps is a NotFoundError.
func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}
