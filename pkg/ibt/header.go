package ibt

import (
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/bytereader"
)

// byte offsets of the header fields
const (
	offVersion           = 0x00
	offStatus            = 0x04
	offTickRate          = 0x08
	offSessionInfoUpdate = 0x0C
	offSessionInfoLen    = 0x10
	offSessionInfoOffset = 0x14
	offNumVars           = 0x18
	offVarHeaderOffset   = 0x1C
	offNumBuf            = 0x20
	offBufLen            = 0x24
	offBufTickCount      = 0x30
	offBufOffset         = 0x34

	// MinHeaderSize is the smallest buffer that can hold a header
	MinHeaderSize = 0x40
)

type Header struct {
	Version           int32
	Status            int32
	TickRate          int32
	SessionInfoUpdate int32
	SessionInfoLen    int32
	SessionInfoOffset int32
	NumVars           int32
	VarHeaderOffset   int32
	NumBuf            int32
	BufLen            int32 // record stride
	BufTickCount      int32
	DataOffset        int32
	RecordCount       int // computed from file size
}

// ParseHeader decodes the fixed header located at the start of buf.
// It returns a FormatError if buf is too short or the record layout is unusable.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < MinHeaderSize {
		return Header{}, formatErrorf("buffer of %d bytes is smaller than header size %d",
			len(buf), MinHeaderSize)
	}
	r := bytereader.New(buf)
	h := Header{}
	fields := []struct {
		offset int
		dst    *int32
	}{
		{offVersion, &h.Version},
		{offStatus, &h.Status},
		{offTickRate, &h.TickRate},
		{offSessionInfoUpdate, &h.SessionInfoUpdate},
		{offSessionInfoLen, &h.SessionInfoLen},
		{offSessionInfoOffset, &h.SessionInfoOffset},
		{offNumVars, &h.NumVars},
		{offVarHeaderOffset, &h.VarHeaderOffset},
		{offNumBuf, &h.NumBuf},
		{offBufLen, &h.BufLen},
		{offBufTickCount, &h.BufTickCount},
		{offBufOffset, &h.DataOffset},
	}
	for _, f := range fields {
		v, err := r.Int32(f.offset)
		if err != nil {
			return Header{}, formatErrorf("header field at 0x%02x: %v", f.offset, err)
		}
		*f.dst = v
	}

	if h.BufLen <= 0 {
		return Header{}, formatErrorf("record stride %d must be positive", h.BufLen)
	}
	if h.DataOffset < 0 || h.VarHeaderOffset < 0 || h.SessionInfoOffset < 0 {
		return Header{}, formatErrorf("negative region offset (data=%d vars=%d info=%d)",
			h.DataOffset, h.VarHeaderOffset, h.SessionInfoOffset)
	}
	if int(h.DataOffset) < len(buf) {
		h.RecordCount = (len(buf) - int(h.DataOffset)) / int(h.BufLen)
	}
	return h, nil
}

// RecordOffset returns the absolute offset of record idx
func (h Header) RecordOffset(idx int) int {
	return int(h.DataOffset) + idx*int(h.BufLen)
}

// Duration returns the recorded time span in seconds
func (h Header) Duration() float64 {
	if h.TickRate <= 0 {
		return 0
	}
	return float64(h.RecordCount) / float64(h.TickRate)
}
