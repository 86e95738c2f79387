// Package sector splits a lap into equal distance sectors and computes their times.
package sector

import (
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
)

// DefaultCount is the number of sectors used if nothing else is configured
const DefaultCount = 3

type mark struct {
	dist float64
	time float64
}

// Times returns the time spent in each of n equal distance sectors of a lap.
// trackLength <= 0 uses the largest distance found in samples.
// The sample time is taken from LapCurrentLapTime if present, otherwise from Time.
// The result is empty if the samples do not allow a computation.
func Times(samples []model.Sample, trackLength float64, n int) []float64 {
	marks := collect(samples)
	if n <= 0 || len(marks) < 2 {
		return []float64{}
	}
	if trackLength <= 0 {
		trackLength = marks[len(marks)-1].dist
	}
	if trackLength <= 0 {
		return []float64{}
	}
	ret := make([]float64, n)
	idx := 0
	prev := timeAt(marks, &idx, 0)
	for s := range n {
		boundary := float64(s+1) * trackLength / float64(n)
		cur := timeAt(marks, &idx, boundary)
		ret[s] = max(cur-prev, 0)
		prev = cur
	}
	return ret
}

func collect(samples []model.Sample) []mark {
	ret := make([]mark, 0, len(samples))
	for _, s := range samples {
		d, ok := s.LapDist.Get()
		if !ok {
			continue
		}
		t := s.Time
		if lt, ok := s.LapCurrentLapTime.Get(); ok {
			t = lt
		}
		if n := len(ret); n > 0 && d < ret[n-1].dist {
			continue
		}
		ret = append(ret, mark{dist: d, time: t})
	}
	return ret
}

// timeAt interpolates the time at dist. idx is advanced monotonically.
// Distances outside the recorded range are clamped.
func timeAt(marks []mark, idx *int, dist float64) float64 {
	for *idx < len(marks)-2 && marks[*idx+1].dist < dist {
		*idx++
	}
	a, b := marks[*idx], marks[*idx+1]
	switch {
	case dist <= a.dist:
		return a.time
	case dist >= b.dist:
		return b.time
	default:
		return a.time + (b.time-a.time)*(dist-a.dist)/(b.dist-a.dist)
	}
}
