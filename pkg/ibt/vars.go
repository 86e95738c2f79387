package ibt

import (
	"fmt"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/bytereader"
)

// VarHeaderSize is the size of one slot in the variable header table
const VarHeaderSize = 144

// VarType is the primitive type tag of a channel
type VarType int32

const (
	VarTypeInt8     VarType = 1
	VarTypeInt32    VarType = 2
	VarTypeBitfield VarType = 3
	VarTypeFloat32  VarType = 4
	VarTypeFloat64  VarType = 5
)

// Width returns the byte width of a single element.
// Unknown tags are treated as float32.
func (t VarType) Width() int {
	switch t {
	case VarTypeInt8:
		return 1
	case VarTypeInt32, VarTypeBitfield, VarTypeFloat32:
		return 4
	case VarTypeFloat64:
		return 8
	default:
		return 4
	}
}

func (t VarType) String() string {
	switch t {
	case VarTypeInt8:
		return "int8"
	case VarTypeInt32:
		return "int32"
	case VarTypeBitfield:
		return "bitfield"
	case VarTypeFloat32:
		return "float32"
	case VarTypeFloat64:
		return "float64"
	default:
		return fmt.Sprintf("unknown(%d)", int32(t))
	}
}

type VarHeader struct {
	Type        VarType
	Offset      int // relative to record start
	Count       int
	CountAsTime bool
	Name        string
	Desc        string
	Unit        string
}

// Size returns the number of bytes the channel occupies inside a record
func (v VarHeader) Size() int {
	return v.Type.Width() * max(v.Count, 1)
}

// VarHeaders maps channel names to their descriptors
type VarHeaders map[string]VarHeader

func (v VarHeaders) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// Names returns the channel names in no particular order
func (v VarHeaders) Names() []string {
	ret := make([]string, 0, len(v))
	for k := range v {
		ret = append(ret, k)
	}
	return ret
}

// ParseVarHeaders reads the variable header table described by h.
// The table is read up to the last slot that fits completely into the buffer.
// Duplicate names are resolved in table order, the last entry wins.
// Entries not fitting into the record stride are passed to onDrop and omitted.
func ParseVarHeaders(r *bytereader.Reader, h Header, onDrop func(VarHeader)) VarHeaders {
	ret := VarHeaders{}
	for i := range int(max(h.NumVars, 0)) {
		slot := int(h.VarHeaderOffset) + i*VarHeaderSize
		if !r.Fits(slot, VarHeaderSize) {
			break
		}
		vh := readVarHeader(r, slot)
		if vh.Offset < 0 || vh.Offset+vh.Size() > int(h.BufLen) {
			if onDrop != nil {
				onDrop(vh)
			}
			continue
		}
		ret[vh.Name] = vh
	}
	return ret
}

// slot is known to fit, read errors cannot occur here
func readVarHeader(r *bytereader.Reader, slot int) VarHeader {
	typ, _ := r.Int32(slot)
	offset, _ := r.Int32(slot + 0x04)
	count, _ := r.Int32(slot + 0x08)
	countAsTime, _ := r.Int8(slot + 0x0C)
	name, _ := r.String(slot+0x10, 32)
	desc, _ := r.String(slot+0x30, 64)
	unit, _ := r.String(slot+0x70, 32)
	return VarHeader{
		Type:        VarType(typ),
		Offset:      int(offset),
		Count:       int(count),
		CountAsTime: countAsTime != 0,
		Name:        name,
		Desc:        desc,
		Unit:        unit,
	}
}

// ReadValue reads the first element of channel v from the record starting at
// recOffset. The value is converted to float64 according to the channel type.
func ReadValue(r *bytereader.Reader, recOffset int, v VarHeader) (float64, error) {
	pos := recOffset + v.Offset
	switch v.Type {
	case VarTypeInt8:
		x, err := r.Int8(pos)
		return float64(x), err
	case VarTypeInt32, VarTypeBitfield:
		x, err := r.Int32(pos)
		return float64(x), err
	case VarTypeFloat64:
		return r.Float64(pos)
	default:
		x, err := r.Float32(pos)
		return float64(x), err
	}
}
