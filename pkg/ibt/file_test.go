package ibt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/testsupport/fixture"
)

const sampleSessionInfo = `---
WeekendInfo:
 TrackName: spa up
 TrackID: 163
 TrackLength: 6.93 km
 TrackDisplayName: Circuit de Spa-Francorchamps
 TrackDisplayShortName: Spa
 TrackConfigName: Grand Prix Pits
SessionInfo:
 Sessions:
 - SessionNum: 0
   SessionType: Practice
DriverInfo:
 DriverCarIdx: 1
 Drivers:
 - CarIdx: 0
   UserName: Pace Car
   CarScreenName: safety pcporsche911cup
   CarPath: safety pcporsche911cup
 - CarIdx: 1
   UserName: Test Driver
   CarScreenName: Porsche 911 GT3 R (992)
   CarPath: porsche992rgt3
...
`

// threeLaps records lap 0 as out lap followed by three timed laps
func threeLaps() []byte {
	lapTimes := []float64{0, 95.123, 94.800, 94.799}
	return fixture.NewIBT(60).
		Channel("Lap", fixture.TypeInt32).
		Channel("LapLastLapTime", fixture.TypeFloat32).
		Channel("Speed", fixture.TypeFloat32).
		Records(4*60, func(i int) map[string]float64 {
			lap := i / 60
			return map[string]float64{
				"Lap":            float64(lap),
				"LapLastLapTime": lapTimes[lap],
				"Speed":          50,
			}
		}).
		Bytes()
}

func TestLapsRoundTrip(t *testing.T) {
	f, err := Decode(threeLaps())
	require.NoError(t, err)

	res := f.Laps()
	assert.Equal(t, []model.LapRecord{
		{Lap: 1, Time: 95.123},
		{Lap: 2, Time: 94.8},
		{Lap: 3, Time: 94.799},
	}, res.Laps)
	assert.Equal(t, 94.799, res.BestLapTime)
}

func TestLapsDeduplicate(t *testing.T) {
	// the same last lap time reported for two laps is recorded once
	lapTimes := []float64{0, 95.5, 95.5, 96.0}
	buf := fixture.NewIBT(10).
		Channel("Lap", fixture.TypeInt32).
		Channel("LapLastLapTime", fixture.TypeFloat32).
		Channel("LapBestLapTime", fixture.TypeFloat32).
		Records(4*10, func(i int) map[string]float64 {
			lap := i / 10
			return map[string]float64{
				"Lap":            float64(lap),
				"LapLastLapTime": lapTimes[lap],
				"LapBestLapTime": 95.25,
			}
		}).
		Bytes()
	f, err := Decode(buf)
	require.NoError(t, err)
	res := f.Laps()
	assert.Equal(t, []model.LapRecord{{Lap: 1, Time: 95.5}, {Lap: 3, Time: 96}}, res.Laps)
	assert.Equal(t, 95.25, res.BestLapTime)
}

func TestLapsSkipsNoLapSentinel(t *testing.T) {
	laps := []float64{-1, -1, 1, -1, 2}
	buf := fixture.NewIBT(1).
		Channel("Lap", fixture.TypeInt32).
		Channel("LapLastLapTime", fixture.TypeFloat32).
		Records(len(laps), func(i int) map[string]float64 {
			return map[string]float64{"Lap": laps[i], "LapLastLapTime": 90 + float64(i)}
		}).
		Bytes()
	f, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, []model.LapRecord{{Lap: 1, Time: 92}, {Lap: 2, Time: 94}}, f.Laps().Laps)
}

func TestLapsWithoutLapChannel(t *testing.T) {
	buf := fixture.NewIBT(60).
		Channel("Speed", fixture.TypeFloat32).
		Records(10, func(i int) map[string]float64 { return nil }).
		Bytes()
	f, err := Decode(buf)
	require.NoError(t, err)
	res := f.Laps()
	assert.Empty(t, res.Laps)
	assert.Zero(t, res.BestLapTime)
}

func TestSessionSamples(t *testing.T) {
	f, err := Decode(threeLaps())
	require.NoError(t, err)

	samples := f.SessionSamples()
	require.Len(t, samples, 4)
	for i, s := range samples {
		assert.Equal(t, float64(i), s.Time)
		assert.InDelta(t, 180.0, s.Speed.GetOrZero(), 1e-4)
		assert.Equal(t, i, s.Lap.GetOrZero())
		// channels not contained in the file stay unset
		assert.False(t, s.Throttle.IsSet())
		assert.False(t, s.Brake.IsSet())
		assert.False(t, s.LapDist.IsSet())
		assert.False(t, s.Gear.IsSet())
	}
}

func TestLapSamples(t *testing.T) {
	buf := fixture.NewIBT(60).
		Channel("Lap", fixture.TypeInt32).
		Channel("LapDist", fixture.TypeFloat32).
		Channel("Throttle", fixture.TypeFloat32).
		Channel("Lat", fixture.TypeFloat64).
		Records(120, func(i int) map[string]float64 {
			return map[string]float64{
				"Lap":      float64(i / 60),
				"LapDist":  float64(i%60) * 10,
				"Throttle": 0.5,
				"Lat":      50.437,
			}
		}).
		Bytes()
	f, err := Decode(buf)
	require.NoError(t, err)

	samples := f.LapSamples(1)
	// records 60..119 at every 6th record
	require.Len(t, samples, 10)
	assert.Equal(t, 1.0, samples[0].Time)
	assert.Equal(t, 0.0, samples[0].LapDist.GetOrZero())
	assert.Equal(t, 540.0, samples[9].LapDist.GetOrZero())
	assert.Equal(t, 50.0, samples[0].Throttle.GetOrZero())
	assert.Equal(t, 50.437, samples[0].Lat.GetOrZero())
	assert.False(t, samples[0].Lon.IsSet())

	assert.Empty(t, f.LapSamples(5))
}

func TestLapSamplesWithoutLapChannel(t *testing.T) {
	buf := fixture.NewIBT(60).
		Channel("Speed", fixture.TypeFloat32).
		Records(60, func(i int) map[string]float64 { return nil }).
		Bytes()
	f, err := Decode(buf)
	require.NoError(t, err)
	assert.Empty(t, f.LapSamples(0))
}

func TestDecodeSessionInfo(t *testing.T) {
	buf := fixture.NewIBT(60).
		Channel("Speed", fixture.TypeFloat32).
		SessionInfo(sampleSessionInfo).
		Bytes()
	f, err := Decode(buf)
	require.NoError(t, err)

	m := f.Session
	assert.Equal(t, "Circuit de Spa-Francorchamps", m.Track().GetOrZero())
	assert.Equal(t, "Spa", m.TrackShortName.GetOrZero())
	assert.Equal(t, "Grand Prix Pits", m.TrackConfig.GetOrZero())
	assert.Equal(t, "6.93 km", m.TrackLength.GetOrZero())
	assert.InDelta(t, 6.93, m.TrackLengthKm.GetOrZero(), 1e-9)
	assert.Equal(t, "Practice", m.SessionType.GetOrZero())
	assert.Equal(t, 1, m.DriverCarIdx.GetOrZero())
	assert.Equal(t, "Porsche 911 GT3 R (992)", m.CarName.GetOrZero())
	assert.Equal(t, "porsche992rgt3", m.CarPath.GetOrZero())

	tf := f.TelemetryFile()
	assert.Equal(t, model.FormatIBT, tf.Format)
	assert.Equal(t, int64(len(buf)), tf.ByteSize)
}

func TestExtractSessionMetadataMissingKeys(t *testing.T) {
	m := ExtractSessionMetadata("WeekendInfo:\n TrackName: monza\n")
	assert.Equal(t, "monza", m.Track().GetOrZero())
	assert.False(t, m.TrackDisplayName.IsSet())
	assert.False(t, m.CarName.IsSet())
	assert.False(t, m.CarPath.IsSet())
	assert.False(t, m.DriverCarIdx.IsSet())
	assert.False(t, m.TrackLengthKm.IsSet())
}

func TestExtractSessionMetadataCarFallback(t *testing.T) {
	text := "DriverInfo:\n DriverCarIdx: 7\n Drivers:\n - CarIdx: 0\n   CarScreenName: Audi R8 LMS\n"
	m := ExtractSessionMetadata(text)
	assert.Equal(t, "Audi R8 LMS", m.CarName.GetOrZero())
	assert.False(t, m.CarPath.IsSet())
}

func TestParseTrackLength(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOk bool
	}{
		{"7.00 km", 7, true},
		{" 5.79 km", 5.79, true},
		{"km", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTrackLength(tt.in)
			assert.Equal(t, tt.wantOk, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
