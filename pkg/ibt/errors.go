package ibt

import (
	"errors"
	"fmt"
)

var ErrFormat = errors.New("invalid ibt format")

// FormatError reports a structural problem that makes the byte layout unreliable
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", ErrFormat.Error(), e.Reason)
}

func (e *FormatError) Unwrap() error {
	return ErrFormat
}

func formatErrorf(format string, args ...any) error {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}
