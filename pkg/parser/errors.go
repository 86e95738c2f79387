package parser

import (
	"errors"
	"fmt"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnsupportedFormat.Error(), e.Ext)
}

func (e *UnsupportedFormatError) Unwrap() error {
	return ErrUnsupportedFormat
}
