package compare

import (
	"cmp"
	"slices"

	"github.com/aarondl/opt/omit"
	"github.com/samber/lo"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
)

// Align resamples driver and reference onto bins equally spaced distances.
// The distance range is limited by the shorter of both laps. For each bin the
// last sample not beyond the bin distance is used (the first sample if there
// is none). The result is empty if one side has less than two samples with a
// lap distance.
func Align(driver, reference []model.Sample, bins int) []model.AlignedSample {
	d := withDistance(driver)
	r := withDistance(reference)
	if len(d) < 2 || len(r) < 2 || bins <= 0 {
		return []model.AlignedSample{}
	}
	maxDist := min(lastDistance(d), lastDistance(r))
	step := maxDist / float64(bins)

	ret := make([]model.AlignedSample, 0, bins)
	di, ri := 0, 0
	for i := range bins {
		dist := float64(i) * step
		di = advance(d, di, dist)
		ri = advance(r, ri, dist)
		ret = append(ret, pair(dist, d[di], r[ri]))
	}
	return ret
}

func withDistance(samples []model.Sample) []model.Sample {
	ret := lo.Filter(samples, func(s model.Sample, _ int) bool {
		return s.LapDist.IsSet()
	})
	slices.SortStableFunc(ret, func(a, b model.Sample) int {
		return cmp.Compare(a.LapDist.GetOrZero(), b.LapDist.GetOrZero())
	})
	return ret
}

func lastDistance(sorted []model.Sample) float64 {
	return sorted[len(sorted)-1].LapDist.GetOrZero()
}

// advance moves idx forward while the next sample is not beyond dist
func advance(samples []model.Sample, idx int, dist float64) int {
	for idx < len(samples)-1 && samples[idx+1].LapDist.GetOrZero() <= dist {
		idx++
	}
	return idx
}

func pair(dist float64, d, r model.Sample) model.AlignedSample {
	return model.AlignedSample{
		Distance:      dist,
		Driver:        d,
		Reference:     r,
		SpeedDelta:    delta(d.Speed, r.Speed),
		ThrottleDelta: delta(d.Throttle, r.Throttle),
		BrakeDelta:    delta(d.Brake, r.Brake),
		SteeringDelta: delta(d.Steering, r.Steering),
	}
}

func delta(a, b omit.Val[float64]) omit.Val[float64] {
	x, okA := a.Get()
	y, okB := b.Get()
	if !okA || !okB {
		return omit.Val[float64]{}
	}
	return omit.From(x - y)
}
