package ibt

import (
	"math"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
)

// lap times are compared in whole milliseconds
const lapTimeResolution = 1000

type LapSummary struct {
	Laps        []model.LapRecord
	BestLapTime float64
}

// Laps collects the completed laps of the recording.
// A lap is recorded when the Lap channel changes to a positive value and
// LapLastLapTime holds a positive time. The best lap time is the largest
// LapBestLapTime seen at lap changes or, if that channel is not usable, the
// fastest collected lap.
func (f *File) Laps() LapSummary {
	ret := LapSummary{Laps: []model.LapRecord{}}
	if !f.Vars.Has("Lap") {
		return ret
	}
	lastLap := -1
	for i := range f.Header.RecordCount {
		if !f.recordFits(i) {
			break
		}
		v, _ := f.value(i, "Lap")
		lap := int(v)
		if lap == lastLap || lap < 0 {
			continue
		}
		lastLapTime := readLapTime(f, i, "LapLastLapTime")
		if lap > 0 && lastLapTime > 0 && !containsLapTime(ret.Laps, lastLapTime) {
			ret.Laps = append(ret.Laps, model.LapRecord{Lap: lap, Time: lastLapTime})
		}
		if best := readLapTime(f, i, "LapBestLapTime"); best > ret.BestLapTime {
			ret.BestLapTime = best
		}
		lastLap = lap
	}
	if ret.BestLapTime == 0 {
		ret.BestLapTime = fastest(ret.Laps)
	}
	return ret
}

// readLapTime returns the channel value rounded to milliseconds.
// float32 storage would otherwise make 94.800 and 94.799 less than 1ms apart.
func readLapTime(f *File, idx int, name string) float64 {
	v, ok := f.value(idx, name)
	if !ok {
		return 0
	}
	return math.Round(v*lapTimeResolution) / lapTimeResolution
}

func containsLapTime(laps []model.LapRecord, t float64) bool {
	ms := math.Round(t * lapTimeResolution)
	for _, l := range laps {
		if math.Abs(math.Round(l.Time*lapTimeResolution)-ms) < 1 {
			return true
		}
	}
	return false
}

func fastest(laps []model.LapRecord) float64 {
	ret := 0.0
	for _, l := range laps {
		if ret == 0 || l.Time < ret {
			ret = l.Time
		}
	}
	return ret
}
