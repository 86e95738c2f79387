package bytereader

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleBuffer() []byte {
	buf := make([]byte, 32)
	buf[0] = 0xFE // int8 -2
	binary.LittleEndian.PutUint32(buf[4:], uint32(0xFFFFFFFF))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(94.799))
	binary.LittleEndian.PutUint64(buf[16:], math.Float64bits(-12.5))
	copy(buf[24:], " spa\x00xx")
	return buf
}

func TestReaderPrimitives(t *testing.T) {
	r := New(sampleBuffer())

	i8, err := r.Int8(0)
	require.NoError(t, err)
	require.Equal(t, int8(-2), i8)

	i32, err := r.Int32(4)
	require.NoError(t, err)
	require.Equal(t, int32(-1), i32)

	f32, err := r.Float32(8)
	require.NoError(t, err)
	require.InDelta(t, 94.799, float64(f32), 1e-4)

	f64, err := r.Float64(16)
	require.NoError(t, err)
	require.Equal(t, -12.5, f64)

	s, err := r.String(24, 8)
	require.NoError(t, err)
	require.Equal(t, "spa", s)
}

func TestReaderBounds(t *testing.T) {
	r := New(sampleBuffer())

	tests := []struct {
		name string
		read func() error
	}{
		{"int32 at end", func() error { _, err := r.Int32(30); return err }},
		{"float64 past end", func() error { _, err := r.Float64(28); return err }},
		{"negative offset", func() error { _, err := r.Int8(-1); return err }},
		{"string outside", func() error { _, err := r.String(32, 4); return err }},
		{"bytes too long", func() error { _, err := r.Bytes(0, 33); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.read()
			require.ErrorIs(t, err, ErrOutOfBounds)
			var be *BoundsError
			require.ErrorAs(t, err, &be)
		})
	}
}

func TestStringTruncatedAtBufferEnd(t *testing.T) {
	r := New([]byte("abc"))
	s, err := r.String(1, 64)
	require.NoError(t, err)
	require.Equal(t, "bc", s)
}

func TestFits(t *testing.T) {
	r := New(make([]byte, 8))
	require.True(t, r.Fits(4, 4))
	require.False(t, r.Fits(5, 4))
	require.True(t, r.Fits(8, 0))
	require.False(t, r.Fits(-1, 1))
}
