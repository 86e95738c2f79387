// Package fixture builds synthetic telemetry files for tests.
package fixture

import (
	"encoding/binary"
	"math"
)

// type tags as used in the variable header table
const (
	TypeInt8     int32 = 1
	TypeInt32    int32 = 2
	TypeBitfield int32 = 3
	TypeFloat32  int32 = 4
	TypeFloat64  int32 = 5
)

const (
	headerSize    = 0x90
	varHeaderSize = 144
)

type Channel struct {
	Name   string
	Type   int32
	Count  int32
	offset int32 // set by Bytes unless overridden by ChannelAt
	fixed  bool
}

// IBT collects channels, session info and records of a synthetic ibt file
type IBT struct {
	version     int32
	tickRate    int32
	stride      int32 // 0: computed from channels
	sessionInfo string
	channels    []Channel
	records     []map[string]float64
}

func NewIBT(tickRate int32) *IBT {
	return &IBT{version: 2, tickRate: tickRate}
}

func (b *IBT) Version(v int32) *IBT {
	b.version = v
	return b
}

// Stride forces the record stride. Used to produce invalid layouts.
func (b *IBT) Stride(s int32) *IBT {
	b.stride = s
	return b
}

func (b *IBT) SessionInfo(text string) *IBT {
	b.sessionInfo = text
	return b
}

func (b *IBT) Channel(name string, typ int32) *IBT {
	b.channels = append(b.channels, Channel{Name: name, Type: typ, Count: 1})
	return b
}

// ChannelAt adds a channel with an explicit record offset
func (b *IBT) ChannelAt(name string, typ, offset int32) *IBT {
	b.channels = append(b.channels, Channel{
		Name: name, Type: typ, Count: 1, offset: offset, fixed: true,
	})
	return b
}

// Record appends a record. Channels missing in values are written as zero.
func (b *IBT) Record(values map[string]float64) *IBT {
	b.records = append(b.records, values)
	return b
}

// Records appends n records produced by fn
func (b *IBT) Records(n int, fn func(i int) map[string]float64) *IBT {
	for i := range n {
		b.Record(fn(i))
	}
	return b
}

// Bytes renders the file
func (b *IBT) Bytes() []byte {
	channels := make([]Channel, len(b.channels))
	copy(channels, b.channels)
	next := int32(0)
	for i := range channels {
		if !channels[i].fixed {
			channels[i].offset = next
		}
		next = max(next, channels[i].offset+width(channels[i].Type))
	}
	stride := b.stride
	if stride == 0 {
		stride = next
	}

	varOffset := int32(headerSize)
	infoOffset := varOffset + int32(len(channels)*varHeaderSize)
	infoLen := int32(len(b.sessionInfo))
	dataOffset := infoOffset + infoLen
	size := int(dataOffset)
	if stride > 0 {
		size += len(b.records) * int(stride)
	}
	buf := make([]byte, size)

	putI32(buf, 0x00, b.version)
	putI32(buf, 0x04, 1)
	putI32(buf, 0x08, b.tickRate)
	putI32(buf, 0x0C, 1)
	putI32(buf, 0x10, infoLen)
	putI32(buf, 0x14, infoOffset)
	putI32(buf, 0x18, int32(len(channels)))
	putI32(buf, 0x1C, varOffset)
	putI32(buf, 0x20, 1)
	putI32(buf, 0x24, stride)
	putI32(buf, 0x34, dataOffset)

	for i, c := range channels {
		slot := int(varOffset) + i*varHeaderSize
		putI32(buf, slot, c.Type)
		putI32(buf, slot+0x04, c.offset)
		putI32(buf, slot+0x08, c.Count)
		copy(buf[slot+0x10:slot+0x30], c.Name)
	}
	copy(buf[infoOffset:], b.sessionInfo)

	if stride <= 0 {
		return buf
	}
	for r, values := range b.records {
		rec := int(dataOffset) + r*int(stride)
		for _, c := range channels {
			pos := rec + int(c.offset)
			if pos+int(width(c.Type)) > rec+int(stride) {
				continue
			}
			putValue(buf, pos, c.Type, values[c.Name])
		}
	}
	return buf
}

func width(typ int32) int32 {
	switch typ {
	case TypeInt8:
		return 1
	case TypeFloat64:
		return 8
	default:
		return 4
	}
}

func putValue(buf []byte, pos int, typ int32, v float64) {
	switch typ {
	case TypeInt8:
		buf[pos] = byte(int8(v))
	case TypeInt32, TypeBitfield:
		putI32(buf, pos, int32(v))
	case TypeFloat64:
		binary.LittleEndian.PutUint64(buf[pos:], math.Float64bits(v))
	default:
		binary.LittleEndian.PutUint32(buf[pos:], math.Float32bits(float32(v)))
	}
}

func putI32(buf []byte, pos int, v int32) {
	binary.LittleEndian.PutUint32(buf[pos:], uint32(v))
}

// PutFloat32 writes v at pos. Used to patch snapshot buffers.
func PutFloat32(buf []byte, pos int, v float32) {
	binary.LittleEndian.PutUint32(buf[pos:], math.Float32bits(v))
}

// PutInt32 writes v at pos
func PutInt32(buf []byte, pos int, v int32) {
	putI32(buf, pos, v)
}
