// Package bytereader provides bounds-checked little endian reads from a byte buffer.
//
// All read methods take an absolute offset. A read that would touch bytes outside
// the buffer returns an error matching ErrOutOfBounds instead of panicking.
package bytereader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrOutOfBounds = errors.New("read out of bounds")

// BoundsError describes a read that does not fit into the buffer
type BoundsError struct {
	Offset int
	Width  int
	Len    int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("read of %d bytes at offset %d exceeds buffer length %d",
		e.Width, e.Offset, e.Len)
}

func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}

type Reader struct {
	buf []byte
}

func New(buf []byte) *Reader {
	return &Reader{buf: buf}
}

func (r *Reader) Len() int {
	return len(r.buf)
}

// Fits reports whether width bytes starting at offset are inside the buffer
func (r *Reader) Fits(offset, width int) bool {
	return offset >= 0 && width >= 0 && offset <= len(r.buf)-width
}

// Bytes returns the sub slice [offset, offset+n). The slice shares the buffer.
func (r *Reader) Bytes(offset, n int) ([]byte, error) {
	if !r.Fits(offset, n) {
		return nil, r.boundsErr(offset, n)
	}
	return r.buf[offset : offset+n], nil
}

func (r *Reader) Int8(offset int) (int8, error) {
	if !r.Fits(offset, 1) {
		return 0, r.boundsErr(offset, 1)
	}
	return int8(r.buf[offset]), nil
}

func (r *Reader) Int32(offset int) (int32, error) {
	v, err := r.Uint32(offset)
	return int32(v), err
}

func (r *Reader) Uint32(offset int) (uint32, error) {
	if !r.Fits(offset, 4) {
		return 0, r.boundsErr(offset, 4)
	}
	return binary.LittleEndian.Uint32(r.buf[offset:]), nil
}

func (r *Reader) Float32(offset int) (float32, error) {
	v, err := r.Uint32(offset)
	return math.Float32frombits(v), err
}

func (r *Reader) Float64(offset int) (float64, error) {
	if !r.Fits(offset, 8) {
		return 0, r.boundsErr(offset, 8)
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(r.buf[offset:])), nil
}

// String reads a null terminated string of at most maxLen bytes and trims surrounding
// whitespace. A field running into the end of the buffer is truncated, not an error,
// as long as offset itself is inside the buffer.
func (r *Reader) String(offset, maxLen int) (string, error) {
	if offset < 0 || offset >= len(r.buf) || maxLen < 0 {
		return "", r.boundsErr(offset, maxLen)
	}
	end := min(offset+maxLen, len(r.buf))
	field := r.buf[offset:end]
	for i, b := range field {
		if b == 0 {
			field = field[:i]
			break
		}
	}
	return strings.TrimSpace(string(field)), nil
}

func (r *Reader) boundsErr(offset, width int) error {
	return &BoundsError{Offset: offset, Width: width, Len: len(r.buf)}
}
