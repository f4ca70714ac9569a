package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// MapError maps external errors into the assistant taxonomy.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	// Propagate cancellation as-is
	if errors.Is(err, context.Canceled) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timeout: %w", ErrTransient)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("request timeout: %w", ErrTransient)
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "timeout"), strings.Contains(errStr, "deadline exceeded"):
		return fmt.Errorf("request timeout: %w", ErrTransient)

	case strings.Contains(errStr, "connection"), strings.Contains(errStr, "network"), strings.Contains(errStr, "unreachable"):
		return fmt.Errorf("network error: %w", ErrTransient)

	case strings.Contains(errStr, "not found"), strings.Contains(errStr, "does not exist"):
		return fmt.Errorf("resource not found: %w", ErrNotFound)

	default:
		return fmt.Errorf("internal error: %w", ErrInternal)
	}
}

// Wrap wraps an error with context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsCategory checks if error belongs to a specific category.
func IsCategory(err error, category error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, category)
}

// InvalidInput wraps a message as a local validation failure.
func InvalidInput(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInvalidInput)
}

// Serialization wraps a message as a snapshot serialization failure.
func Serialization(message string) error {
	return fmt.Errorf("%s: %w", message, ErrSerialization)
}

// Category returns the taxonomy category name for an error.
func Category(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidInput):
		return "ErrInvalidInput"
	case errors.Is(err, ErrBusy):
		return "ErrBusy"
	case errors.Is(err, ErrSerialization):
		return "ErrSerialization"
	case errors.Is(err, ErrTransient):
		return "ErrTransient"
	case errors.Is(err, ErrRemote):
		return "ErrRemote"
	case errors.Is(err, ErrNotFound):
		return "ErrNotFound"
	case errors.Is(err, ErrInternal):
		return "ErrInternal"
	default:
		return "Unknown"
	}
}
