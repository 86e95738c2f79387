// Package corner identifies corners in the speed trace of a single lap.
//
// A corner is a local speed minimum (apex) with a sufficient speed drop from the
// preceding maximum (entry). The exit is the following local maximum. Distances
// bound both searches so long straights do not stretch a corner.
package corner

import (
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
)

type (
	Option func(*config)
	config struct {
		window        int     // samples
		minSpeedDrop  float64 // km/h
		minSeparation float64 // m
		maxApproach   float64 // m
	}
)

func defaultConfig() *config {
	return &config{
		window:        5,
		minSpeedDrop:  10,
		minSeparation: 100,
		maxApproach:   300,
	}
}

// WithSmoothingWindow sets the number of samples of the centered moving average.
// Values <= 1 disable smoothing.
func WithSmoothingWindow(n int) Option {
	return func(c *config) { c.window = n }
}

// WithMinSpeedDrop sets the minimum speed loss from entry to apex in km/h
func WithMinSpeedDrop(v float64) Option {
	return func(c *config) { c.minSpeedDrop = v }
}

// WithMinSeparation sets the minimum distance between two apexes.
// Of two apexes closer than this the slower one is kept.
func WithMinSeparation(v float64) Option {
	return func(c *config) { c.minSeparation = v }
}

// WithMaxApproach limits how far entry and exit may be away from the apex
func WithMaxApproach(v float64) Option {
	return func(c *config) { c.maxApproach = v }
}

type point struct {
	dist  float64
	speed float64
}

// Identify returns the corners of a lap ordered by distance.
// Only samples carrying both speed and lap distance are used.
func Identify(samples []model.Sample, opts ...Option) []model.Corner {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	pts := usablePoints(samples)
	ret := []model.Corner{}
	if len(pts) < 3 {
		return ret
	}
	speeds := Smooth(lo.Map(pts, func(p point, _ int) float64 { return p.speed }), cfg.window)

	for i := 1; i < len(pts)-1; i++ {
		if !(speeds[i] < speeds[i-1] && speeds[i] <= speeds[i+1]) {
			continue
		}
		entry := i
		for entry > 0 && speeds[entry-1] >= speeds[entry] &&
			pts[i].dist-pts[entry-1].dist <= cfg.maxApproach {
			entry--
		}
		exit := i
		for exit < len(pts)-1 && speeds[exit+1] >= speeds[exit] &&
			pts[exit+1].dist-pts[i].dist <= cfg.maxApproach {
			exit++
		}
		if speeds[entry]-speeds[i] < cfg.minSpeedDrop {
			continue
		}
		c := model.Corner{
			Distance:      pts[i].dist,
			EntryDistance: pts[entry].dist,
			ExitDistance:  pts[exit].dist,
			EntrySpeed:    speeds[entry],
			ApexSpeed:     speeds[i],
			ExitSpeed:     speeds[exit],
		}
		if n := len(ret); n > 0 && c.Distance-ret[n-1].Distance < cfg.minSeparation {
			if c.ApexSpeed < ret[n-1].ApexSpeed {
				ret[n-1] = c
			}
			continue
		}
		ret = append(ret, c)
	}
	for i := range ret {
		ret[i].Index = i + 1
	}
	return ret
}

// usablePoints collects (distance, speed) pairs. Samples going backwards in
// distance (e.g. crossing the start/finish line) are dropped.
func usablePoints(samples []model.Sample) []point {
	ret := make([]point, 0, len(samples))
	for _, s := range samples {
		d, okD := s.LapDist.Get()
		v, okV := s.Speed.Get()
		if !okD || !okV {
			continue
		}
		if n := len(ret); n > 0 && d < ret[n-1].dist {
			continue
		}
		ret = append(ret, point{dist: d, speed: v})
	}
	return ret
}

// Smooth applies a centered moving average. The window shrinks at both ends.
func Smooth(vals []float64, window int) []float64 {
	if window <= 1 || len(vals) == 0 {
		return vals
	}
	half := window / 2
	out := make([]float64, len(vals))
	for i := range vals {
		from, to := max(0, i-half), min(len(vals), i+half+1)
		out[i] = stat.Mean(vals[from:to], nil)
	}
	return out
}
