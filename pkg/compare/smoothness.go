package compare

import (
	"math"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
)

const (
	throttleMinInput = 0.5 // percent
	throttleMaxStep  = 0.2
	steeringMinInput = 0.1 // rad
	steeringMaxStep  = 0.1
)

// AnalyzeThrottle rates how smooth the driver applies the throttle.
// Only samples with more than half throttle are considered.
func AnalyzeThrottle(aligned []model.AlignedSample) model.SmoothnessAnalysis {
	ret := smoothness(aligned,
		func(s model.Sample) float64 { return s.Throttle.GetOrZero() },
		throttleMinInput, throttleMaxStep)
	switch {
	case ret.Score > 80:
		ret.Summary = "Smooth throttle application"
	case ret.Score > 60:
		ret.Summary = "Throttle application could be smoother"
	default:
		ret.Summary = "Jerky throttle inputs - work on smoother progression"
	}
	return ret
}

// AnalyzeSteering rates the steering inputs based on the steering angle magnitude
func AnalyzeSteering(aligned []model.AlignedSample) model.SmoothnessAnalysis {
	ret := smoothness(aligned,
		func(s model.Sample) float64 { return math.Abs(s.Steering.GetOrZero()) },
		steeringMinInput, steeringMaxStep)
	if ret.Score > 85 {
		ret.Summary = "Smooth steering inputs"
	} else {
		ret.Summary = "Work on smoother steering transitions"
	}
	return ret
}

// smoothness counts the inner samples whose value exceeds minInput and the
// subset of those whose change to both neighbors stays below maxStep.
func smoothness(
	aligned []model.AlignedSample,
	value func(model.Sample) float64,
	minInput, maxStep float64,
) model.SmoothnessAnalysis {
	ret := model.SmoothnessAnalysis{}
	for i := 1; i < len(aligned)-1; i++ {
		cur := value(aligned[i].Driver)
		if cur <= minInput {
			continue
		}
		ret.Qualifying++
		prev := value(aligned[i-1].Driver)
		next := value(aligned[i+1].Driver)
		if math.Abs(cur-prev) < maxStep && math.Abs(next-cur) < maxStep {
			ret.Smooth++
		}
	}
	if ret.Qualifying > 0 {
		ret.Score = math.Round(float64(ret.Smooth)/float64(ret.Qualifying)*1000) / 10
	}
	return ret
}
