package compare

import (
	"fmt"
	"math"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
)

const (
	brakeOnset          = 0.1  // percent
	brakePointTolerance = 10.0 // m
)

// AnalyzeBraking finds the driver brake points and compares each with the
// nearest reference brake point within the search window. Driver brake points
// without reference counterpart are skipped.
func AnalyzeBraking(aligned []model.AlignedSample) model.BrakingAnalysis {
	points := []model.BrakePoint{}
	driverBrake := func(i int) float64 { return aligned[i].Driver.Brake.GetOrZero() }
	for i := 1; i < len(aligned); i++ {
		if !isOnset(driverBrake(i-1), driverBrake(i)) {
			continue
		}
		ref, ok := nearestReferenceOnset(aligned, i)
		if !ok {
			continue
		}
		diff := aligned[i].Distance - aligned[ref].Distance
		points = append(points, model.BrakePoint{
			Distance:           aligned[i].Distance,
			DriverSpeed:        aligned[i].Driver.Speed.GetOrZero(),
			ReferenceSpeed:     aligned[ref].Reference.Speed.GetOrZero(),
			DistanceDifference: diff,
			Timing:             brakeTiming(diff),
			Issue:              brakeIssue(diff),
		})
	}
	tendency, summary := summarizeBraking(points)
	return model.BrakingAnalysis{BrakePoints: points, Tendency: tendency, Summary: summary}
}

func isOnset(prev, cur float64) bool {
	return prev < brakeOnset && cur >= brakeOnset
}

// nearestReferenceOnset searches the reference brake onset closest to idx
// within [idx-brakeSearchWindow, idx+brakeSearchWindow).
// Of two onsets with the same index distance the earlier one wins.
func nearestReferenceOnset(aligned []model.AlignedSample, idx int) (int, bool) {
	refBrake := func(i int) float64 { return aligned[i].Reference.Brake.GetOrZero() }
	for off := 0; off <= brakeSearchWindow; off++ {
		for _, i := range []int{idx - off, idx + off} {
			if i < 1 || i >= len(aligned) || i == idx+brakeSearchWindow {
				continue
			}
			if isOnset(refBrake(i-1), refBrake(i)) {
				return i, true
			}
		}
	}
	return 0, false
}

func brakeTiming(diff float64) model.BrakeTiming {
	switch {
	case diff < 0:
		return model.BrakeEarly
	case diff > 0:
		return model.BrakeLate
	default:
		return model.BrakeMatched
	}
}

func brakeIssue(diff float64) string {
	switch {
	case diff < -brakePointTolerance:
		return "Braking too early"
	case diff > brakePointTolerance:
		return "Braking too late"
	default:
		return "Good brake point"
	}
}

func summarizeBraking(points []model.BrakePoint) (model.BrakeTendency, string) {
	if len(points) == 0 {
		return model.TendencyNone, "No brake points analyzed"
	}
	early := lo.CountBy(points, func(p model.BrakePoint) bool { return p.Timing == model.BrakeEarly })
	late := lo.CountBy(points, func(p model.BrakePoint) bool { return p.Timing == model.BrakeLate })
	avg := stat.Mean(lo.Map(points, func(p model.BrakePoint, _ int) float64 {
		return p.DistanceDifference
	}), nil)

	switch {
	case early > 2*late:
		return model.TendencyEarly, fmt.Sprintf(
			"Braking too early on average (%d/%d points). Try braking %.0fm later.",
			early, len(points), math.Abs(avg))
	case late > 2*early:
		return model.TendencyLate, fmt.Sprintf(
			"Braking too late on average (%d/%d points). Risk of missing apexes.",
			late, len(points))
	default:
		return model.TendencyBalanced, "Brake timing generally good. Minor adjustments needed."
	}
}
