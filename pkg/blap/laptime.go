package blap

import (
	"math"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/bytereader"
)

const (
	lapTimeOffset    = 0x5B4
	lapTimeScanStart = 0x400
	lapTimeScanEnd   = 0x800
)

// lapTimeStrategy returns a lap time in seconds and whether it found one
type lapTimeStrategy func(r *bytereader.Reader) (float64, bool)

//nolint:gochecknoglobals // ordered strategies
var lapTimeStrategies = []lapTimeStrategy{
	lapTimeAtOffset,
	scanLapTime,
}

// FindLapTime returns the lap time stored in a snapshot or 0 if none is found
func FindLapTime(buf []byte) float64 {
	r := bytereader.New(buf)
	for _, s := range lapTimeStrategies {
		if v, ok := s(r); ok {
			return roundMillis(v)
		}
	}
	return 0
}

func lapTimeAtOffset(r *bytereader.Reader) (float64, bool) {
	v, err := r.Float32(lapTimeOffset)
	if err != nil {
		return 0, false
	}
	f := float64(v)
	return f, f > 30 && f < 600
}

// scanLapTime looks for the first float with a fractional part in the range of
// plausible lap times.
func scanLapTime(r *bytereader.Reader) (float64, bool) {
	end := min(lapTimeScanEnd, r.Len()-4)
	for pos := lapTimeScanStart; pos < end; pos += 4 {
		v, err := r.Float32(pos)
		if err != nil {
			return 0, false
		}
		f := float64(v)
		if f > 60 && f < 600 && f != math.Floor(f) {
			return f, true
		}
	}
	return 0, false
}

func roundMillis(v float64) float64 {
	return math.Round(v*1000) / 1000
}
