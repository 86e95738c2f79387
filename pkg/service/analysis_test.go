package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aarondl/opt/omit"
	"gotest.tools/v3/assert"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/compare"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/parser"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/testsupport/fixture"
)

// sessionFile writes a recording with one second of data per lap.
// lapTimes[n] is reported when lap n starts, pace scales the running lap time.
func sessionFile(t *testing.T, name string, pace float64, lapTimes []float64) string {
	t.Helper()
	buf := fixture.NewIBT(60).
		SessionInfo("WeekendInfo:\n TrackDisplayName: Testtrack\n TrackLength: 1.18 km\n").
		Channel("Lap", fixture.TypeInt32).
		Channel("LapLastLapTime", fixture.TypeFloat32).
		Channel("Speed", fixture.TypeFloat32).
		Channel("LapDist", fixture.TypeFloat32).
		Channel("LapCurrentLapTime", fixture.TypeFloat32).
		Records(len(lapTimes)*60, func(i int) map[string]float64 {
			lap := i / 60
			return map[string]float64{
				"Lap":               float64(lap),
				"LapLastLapTime":    lapTimes[lap],
				"Speed":             100 / 3.6,
				"LapDist":           float64(i%60) * 20,
				"LapCurrentLapTime": float64(i%60) / 60 * pace,
			}
		}).
		Bytes()
	path := filepath.Join(t.TempDir(), name)
	assert.NilError(t, os.WriteFile(path, buf, 0o600))
	return path
}

func newService() *AnalysisService {
	return NewAnalysisService(parser.New(), compare.New())
}

func TestCompareLapsExplicit(t *testing.T) {
	driver := sessionFile(t, "driver.ibt", 1.1, []float64{0, 95.0, 96.0})
	reference := sessionFile(t, "reference.ibt", 1, []float64{0, 94.5, 94.9})

	got, err := newService().CompareLaps(context.Background(),
		LapRef{Path: driver, Lap: omit.From(0)},
		LapRef{Path: reference, Lap: omit.From(0)},
	)
	assert.NilError(t, err)
	assert.Assert(t, got.TimeDelta > 0.499 && got.TimeDelta < 0.501, got.TimeDelta)
	assert.Equal(t, len(got.Aligned), compare.DefaultBins)
	assert.Equal(t, got.DriverLap.Track.GetOrZero(), "Testtrack")
	assert.Equal(t, len(got.Sectors), 3)
	for _, s := range got.Sectors {
		assert.Equal(t, s.Status, model.SectorSlower)
	}
}

func TestCompareLapsFastest(t *testing.T) {
	driver := sessionFile(t, "driver.ibt", 1.1, []float64{0, 95.0, 96.0, 97.0})
	reference := sessionFile(t, "reference.ibt", 1, []float64{0, 96.0, 94.0, 95.0})

	got, err := newService().CompareLaps(context.Background(),
		LapRef{Path: driver}, LapRef{Path: reference})
	assert.NilError(t, err)
	assert.Equal(t, got.DriverLap.LapTimes[0].Lap, 0)
	assert.Equal(t, got.ReferenceLap.LapTimes[0].Lap, 1)
	assert.Assert(t, got.TimeDelta > 0.999 && got.TimeDelta < 1.001, got.TimeDelta)
}

func TestCompareLapsSnapshotReference(t *testing.T) {
	driver := sessionFile(t, "driver.ibt", 1.1, []float64{0, 95.0, 96.0})
	snapshot := filepath.Join(t.TempDir(), "best.blap")
	assert.NilError(t, os.WriteFile(snapshot, fixture.Snapshot{
		Driver:  "Max Tester",
		CarPath: "bmwm4gt3",
		LapTime: 94.5,
	}.Bytes(), 0o600))

	got, err := newService().CompareLaps(context.Background(),
		LapRef{Path: driver, Lap: omit.From(0)}, LapRef{Path: snapshot})
	assert.NilError(t, err)
	assert.Assert(t, got.TimeDelta > 0.499 && got.TimeDelta < 0.501, got.TimeDelta)
	// no reference telemetry, nothing to align
	assert.Equal(t, len(got.Aligned), 0)
	assert.Equal(t, len(got.Corners), 0)
}

func TestCompareLapsErrors(t *testing.T) {
	driver := sessionFile(t, "driver.ibt", 1.1, []float64{0, 95.0})
	_, err := newService().CompareLaps(context.Background(),
		LapRef{Path: driver}, LapRef{Path: "reference.csv"})
	assert.ErrorIs(t, err, parser.ErrUnsupportedFormat)
	assert.ErrorContains(t, err, "reference lap")
}

func TestFastestLap(t *testing.T) {
	tests := []struct {
		name   string
		laps   []model.LapRecord
		want   int
		wantOK bool
	}{
		{name: "none"},
		{
			name:   "reported at next lap",
			laps:   []model.LapRecord{{Lap: 1, Time: 95}, {Lap: 2, Time: 94}, {Lap: 3, Time: 94.5}},
			want:   1,
			wantOK: true,
		},
		{
			name:   "first of equal times",
			laps:   []model.LapRecord{{Lap: 4, Time: 94}, {Lap: 5, Time: 94}},
			want:   3,
			wantOK: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FastestLap(model.ResultMetadata{LapTimes: tt.laps})
			assert.Equal(t, ok, tt.wantOK)
			assert.Equal(t, got, tt.want)
		})
	}
}

func TestLapRefString(t *testing.T) {
	assert.Equal(t, LapRef{Path: "a.ibt"}.String(), "a.ibt")
	assert.Equal(t, LapRef{Path: "a.ibt", Lap: omit.From(3)}.String(), "a.ibt#3")
}
