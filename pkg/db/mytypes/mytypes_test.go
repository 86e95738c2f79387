package mytypes

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestSectorTimesScan(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    SectorTimes
		wantErr bool
	}{
		{name: "bytes", value: []byte("[31.5,32.25]"), want: SectorTimes{31.5, 32.25}},
		{name: "string", value: "[1]", want: SectorTimes{1}},
		{name: "null", value: nil, want: SectorTimes{}},
		{name: "wrong type", value: 42, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got SectorTimes
			err := got.Scan(tt.value)
			if tt.wantErr {
				assert.Assert(t, err != nil)
				return
			}
			assert.NilError(t, err)
			assert.DeepEqual(t, got, tt.want)
		})
	}
}

func TestValueOfNil(t *testing.T) {
	v, err := SectorTimes(nil).Value()
	assert.NilError(t, err)
	assert.Equal(t, v, "[]")

	v, err = SectorTimes{31.5}.Value()
	assert.NilError(t, err)
	assert.Equal(t, v, "[31.5]")
}
