package ibt

import (
	"github.com/aarondl/opt/omit"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
)

// channel describes how a named channel is copied into a sample
type channel struct {
	name  string
	scale float64
	set   func(s *model.Sample, v float64)
}

func floatSetter(dst func(s *model.Sample) *omit.Val[float64]) func(*model.Sample, float64) {
	return func(s *model.Sample, v float64) { *dst(s) = omit.From(v) }
}

func intSetter(dst func(s *model.Sample) *omit.Val[int]) func(*model.Sample, float64) {
	return func(s *model.Sample, v float64) { *dst(s) = omit.From(int(v)) }
}

//nolint:gochecknoglobals // lookup table
var (
	sessionChannels = []channel{
		{"Speed", 3.6, floatSetter(func(s *model.Sample) *omit.Val[float64] { return &s.Speed })},
		{"Throttle", 100, floatSetter(func(s *model.Sample) *omit.Val[float64] { return &s.Throttle })},
		{"Brake", 100, floatSetter(func(s *model.Sample) *omit.Val[float64] { return &s.Brake })},
		{"SteeringWheelAngle", 1, floatSetter(func(s *model.Sample) *omit.Val[float64] { return &s.Steering })},
		{"RPM", 1, floatSetter(func(s *model.Sample) *omit.Val[float64] { return &s.RPM })},
		{"Gear", 1, intSetter(func(s *model.Sample) *omit.Val[int] { return &s.Gear })},
		{"LapDist", 1, floatSetter(func(s *model.Sample) *omit.Val[float64] { return &s.LapDist })},
		{"LapDistPct", 1, floatSetter(func(s *model.Sample) *omit.Val[float64] { return &s.LapDistPct })},
		{"Lap", 1, intSetter(func(s *model.Sample) *omit.Val[int] { return &s.Lap })},
		{"LapCurrentLapTime", 1, floatSetter(func(s *model.Sample) *omit.Val[float64] {
			return &s.LapCurrentLapTime
		})},
	}
	positionChannels = []channel{
		{"Lat", 1, floatSetter(func(s *model.Sample) *omit.Val[float64] { return &s.Lat })},
		{"Lon", 1, floatSetter(func(s *model.Sample) *omit.Val[float64] { return &s.Lon })},
		{"Alt", 1, floatSetter(func(s *model.Sample) *omit.Val[float64] { return &s.Alt })},
		{"Yaw", 1, floatSetter(func(s *model.Sample) *omit.Val[float64] { return &s.Yaw })},
		{"VelocityX", 1, floatSetter(func(s *model.Sample) *omit.Val[float64] { return &s.VelocityX })},
		{"VelocityZ", 1, floatSetter(func(s *model.Sample) *omit.Val[float64] { return &s.VelocityZ })},
	}
	lapChannels = append(append([]channel{}, sessionChannels...), positionChannels...)
)

// SessionSamples returns one sample per second of recording
func (f *File) SessionSamples() []model.Sample {
	step := max(int(f.Header.TickRate), 1)
	ret := make([]model.Sample, 0, f.Header.RecordCount/step+1)
	for i := 0; i < f.Header.RecordCount; i += step {
		if !f.recordFits(i) {
			break
		}
		ret = append(ret, f.sample(i, sessionChannels))
	}
	return ret
}

// LapSamples returns the samples of lap at roughly 10Hz.
// The result is empty if the file has no Lap channel.
func (f *File) LapSamples(lap int) []model.Sample {
	ret := []model.Sample{}
	if !f.Vars.Has("Lap") {
		return ret
	}
	step := max(int(f.Header.TickRate)/10, 1)
	for i := range f.Header.RecordCount {
		if !f.recordFits(i) {
			break
		}
		if v, _ := f.value(i, "Lap"); int(v) != lap {
			continue
		}
		if i%step != 0 {
			continue
		}
		ret = append(ret, f.sample(i, lapChannels))
	}
	return ret
}

func (f *File) sample(idx int, channels []channel) model.Sample {
	s := model.Sample{Time: f.recordTime(idx)}
	for _, c := range channels {
		if v, ok := f.value(idx, c.name); ok {
			c.set(&s, v*c.scale)
		}
	}
	return s
}

func (f *File) recordTime(idx int) float64 {
	if f.Header.TickRate <= 0 {
		return 0
	}
	return float64(idx) / float64(f.Header.TickRate)
}
