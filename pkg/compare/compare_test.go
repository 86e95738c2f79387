package compare

import (
	"testing"

	"github.com/aarondl/opt/omit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
)

// lapTrace creates samples every step meters up to length
func lapTrace(length, step float64, fn func(dist float64) model.Sample) []model.Sample {
	ret := []model.Sample{}
	for d := 0.0; d <= length; d += step {
		s := fn(d)
		s.LapDist = omit.From(d)
		ret = append(ret, s)
	}
	return ret
}

func constSpeed(v float64) func(float64) model.Sample {
	return func(d float64) model.Sample {
		return model.Sample{Speed: omit.From(v), Throttle: omit.From(100.0), Brake: omit.From(0.0)}
	}
}

func TestAlign(t *testing.T) {
	driver := lapTrace(1000, 10, constSpeed(200))
	reference := lapTrace(900, 5, constSpeed(190))

	got := Align(driver, reference, DefaultBins)
	require.Len(t, got, DefaultBins)
	assert.Equal(t, 0.0, got[0].Distance)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i].Distance, got[i-1].Distance)
	}
	// bin 250 is at 450m
	assert.InDelta(t, 450.0, got[250].Distance, 1e-9)
	assert.Equal(t, 450.0, got[250].Driver.LapDist.GetOrZero())
	assert.Equal(t, 450.0, got[250].Reference.LapDist.GetOrZero())
	// bin 1 at 1.8m still uses the first samples
	assert.Equal(t, 0.0, got[1].Driver.LapDist.GetOrZero())
	assert.Equal(t, 10.0, got[1].SpeedDelta.GetOrZero())
	assert.Equal(t, 0.0, got[1].ThrottleDelta.GetOrZero())
	assert.False(t, got[1].SteeringDelta.IsSet())
}

func TestAlignDegenerate(t *testing.T) {
	one := lapTrace(0, 10, constSpeed(100))
	require.Len(t, one, 1)
	full := lapTrace(1000, 10, constSpeed(100))

	assert.Empty(t, Align(nil, nil, DefaultBins))
	assert.Empty(t, Align(one, full, DefaultBins))
	assert.Empty(t, Align(full, one, DefaultBins))
	// samples without distance do not count
	assert.Empty(t, Align([]model.Sample{{Time: 1}, {Time: 2}}, full, DefaultBins))
}

func TestCompareLapTimeAndSectors(t *testing.T) {
	driver := Lap{LapTime: 95.0, SectorTimes: []float64{30.2, 32.0, 32.8}}
	reference := Lap{LapTime: 94.5, SectorTimes: []float64{30.0, 32.1, 32.4, 1}}

	got := New().Compare(driver, reference)
	assert.Equal(t, 0.5, got.TimeDelta)
	require.Len(t, got.Sectors, 3)
	assert.Equal(t, model.SectorSlower, got.Sectors[0].Status)
	assert.Equal(t, model.SectorFaster, got.Sectors[1].Status)
	assert.Equal(t, model.SectorSlower, got.Sectors[2].Status)
	assert.InDelta(t, 0.2/30.0*100, got.Sectors[0].Percentage, 1e-9)

	// no telemetry degrades to empty sections
	assert.Empty(t, got.Aligned)
	assert.Empty(t, got.Corners)
	assert.Equal(t, model.TendencyNone, got.Inputs.Braking.Tendency)
	assert.Empty(t, got.TopIssues)
}

func TestCompareSectorsZeroReference(t *testing.T) {
	got := CompareSectors([]float64{1}, []float64{0})
	require.Len(t, got, 1)
	assert.Zero(t, got[0].Percentage)
	assert.Equal(t, model.SectorSlower, got[0].Status)

	got = CompareSectors([]float64{5}, []float64{5})
	assert.Equal(t, model.SectorFaster, got[0].Status)
}

func TestDiagnose(t *testing.T) {
	tests := []struct {
		name              string
		entry, apex, exit float64
		want              model.CornerDiagnosis
	}{
		{"slow entry wins", -3.5, -10, -10, model.DiagnosisSlowEntry},
		{"low apex", -2, -4, -10, model.DiagnosisLowApex},
		{"poor exit", 0, 0, -3.1, model.DiagnosisPoorExit},
		{"fast entry", 3.1, -3, -3, model.DiagnosisFastEntry},
		{"good", 1.9, -1.9, 0, model.DiagnosisGood},
		{"minor", 2.5, 0, 0, model.DiagnosisMinorIssues},
		{"boundary -3 is not slow", -3, 0, 0, model.DiagnosisMinorIssues},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Diagnose(tt.entry, tt.apex, tt.exit))
		})
	}
}

func TestEstimateTimeLoss(t *testing.T) {
	assert.InDelta(t, 100.0/90-1, EstimateTimeLoss(90, 100), 1e-9)
	assert.InDelta(t, 1-100.0/90, EstimateTimeLoss(100, 90), 1e-9)
	// 2 km/h less apex speed stays below the corner issue threshold
	assert.InDelta(t, 1-100.0/102, EstimateTimeLoss(100, 102), 1e-9)
	assert.Less(t, EstimateTimeLoss(100, 102), minCornerTimeLoss)
	assert.Zero(t, EstimateTimeLoss(0, 100))
	assert.Zero(t, EstimateTimeLoss(100, -1))
}

func TestCompareCorners(t *testing.T) {
	// a single corner at 500m, driver has a 10 km/h lower apex
	shape := func(apex float64) func(float64) model.Sample {
		return func(d float64) model.Sample {
			v := 250.0
			if d > 300 && d < 700 {
				x := (d - 500) / 200
				v = apex + (250-apex)*x*x
			}
			return model.Sample{Speed: omit.From(v)}
		}
	}
	driver := Lap{LapTime: 60, Samples: lapTrace(1000, 10, shape(90))}
	reference := Lap{LapTime: 59.6, Samples: lapTrace(1000, 10, shape(100))}

	got := New().Compare(driver, reference)
	require.Len(t, got.Corners, 1)
	c := got.Corners[0]
	assert.Equal(t, 1, c.Corner)
	assert.InDelta(t, 500.0, c.Distance, 1e-9)
	assert.Less(t, c.Apex.Delta, -3.0)
	assert.Equal(t, model.DiagnosisLowApex, c.Diagnosis)
	assert.Greater(t, c.EstimatedTimeLoss, 0.05)

	require.NotEmpty(t, got.TopIssues)
	assert.Equal(t, model.IssueCorner, got.TopIssues[0].Type)
	assert.Equal(t, 1, got.TopIssues[0].Corner)
}

// alignedBrakes builds aligned samples 2m apart with brake applied from the
// given indexes on
func alignedBrakes(n, driverOnset, referenceOnset int) []model.AlignedSample {
	ret := make([]model.AlignedSample, n)
	for i := range ret {
		d, r := 0.0, 0.0
		if i >= driverOnset {
			d = 80
		}
		if i >= referenceOnset {
			r = 80
		}
		ret[i] = model.AlignedSample{
			Distance:  float64(i) * 2,
			Driver:    model.Sample{Brake: omit.From(d), Speed: omit.From(200.0)},
			Reference: model.Sample{Brake: omit.From(r), Speed: omit.From(210.0)},
		}
	}
	return ret
}

func TestAnalyzeBraking(t *testing.T) {
	tests := []struct {
		name         string
		driver, ref  int
		wantPoints   int
		wantTiming   model.BrakeTiming
		wantIssue    string
		wantTendency model.BrakeTendency
	}{
		{"early", 100, 110, 1, model.BrakeEarly, "Braking too early", model.TendencyEarly},
		{"late", 110, 100, 1, model.BrakeLate, "Braking too late", model.TendencyLate},
		{"slightly early", 100, 105, 1, model.BrakeEarly, "Good brake point", model.TendencyEarly},
		{"matched", 100, 100, 1, model.BrakeMatched, "Good brake point", model.TendencyBalanced},
		{"window start", 100, 50, 1, model.BrakeLate, "Braking too late", model.TendencyLate},
		{"window end excluded", 100, 150, 0, "", "", model.TendencyNone},
		{"out of window", 100, 151, 0, "", "", model.TendencyNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeBraking(alignedBrakes(DefaultBins, tt.driver, tt.ref))
			require.Len(t, got.BrakePoints, tt.wantPoints)
			assert.Equal(t, tt.wantTendency, got.Tendency)
			if tt.wantPoints == 0 {
				assert.Equal(t, "No brake points analyzed", got.Summary)
				return
			}
			bp := got.BrakePoints[0]
			assert.Equal(t, tt.wantTiming, bp.Timing)
			assert.Equal(t, tt.wantIssue, bp.Issue)
			assert.Equal(t, float64(tt.driver-tt.ref)*2, bp.DistanceDifference)
			assert.Equal(t, 200.0, bp.DriverSpeed)
			assert.Equal(t, 210.0, bp.ReferenceSpeed)
		})
	}
}

func TestInputThresholdsUsePercent(t *testing.T) {
	// 5% brake is an onset, the thresholds apply to the 0-100 values
	aligned := alignedBrakes(DefaultBins, 100, 100)
	for i := range aligned {
		if i >= 100 {
			aligned[i].Driver.Brake = omit.From(5.0)
			aligned[i].Reference.Brake = omit.From(5.0)
		}
	}
	got := AnalyzeBraking(aligned)
	require.Len(t, got.BrakePoints, 1)
	assert.Equal(t, model.BrakeMatched, got.BrakePoints[0].Timing)

	// 30% throttle qualifies, steps of 0.1 are smooth
	throttle := make([]model.AlignedSample, 10)
	for i := range throttle {
		throttle[i].Driver = model.Sample{Throttle: omit.From(30 + float64(i%2)*0.1)}
	}
	th := AnalyzeThrottle(throttle)
	assert.Equal(t, 8, th.Qualifying)
	assert.Equal(t, 100.0, th.Score)
}

func TestAnalyzeBrakingSummary(t *testing.T) {
	got := AnalyzeBraking(alignedBrakes(DefaultBins, 100, 110))
	assert.Equal(t, "Braking too early on average (1/1 points). Try braking 20m later.", got.Summary)
}

func TestTopIssues(t *testing.T) {
	losses := []float64{0.04, 0.08, 0.15, 0.25, 0.5, 0.6, 0.07}
	corners := make([]model.CornerComparison, len(losses))
	for i, l := range losses {
		corners[i] = model.CornerComparison{
			Corner:            i + 1,
			EstimatedTimeLoss: l,
			Diagnosis:         model.DiagnosisLowApex,
		}
	}
	braking := model.BrakingAnalysis{Tendency: model.TendencyEarly, Summary: "early"}

	got := TopIssues(corners, braking, DefaultMaxIssues)
	require.Len(t, got, 5)
	assert.Equal(t, []float64{0.6, 0.5, 0.3, 0.25, 0.15}, []float64{
		got[0].TimeLoss, got[1].TimeLoss, got[2].TimeLoss, got[3].TimeLoss, got[4].TimeLoss,
	})
	assert.Equal(t, model.IssueBraking, got[2].Type)
	assert.Equal(t, model.PriorityHigh, got[2].Priority)
	assert.Equal(t, model.PriorityHigh, got[3].Priority)
	assert.Equal(t, model.PriorityMedium, got[4].Priority)

	got = TopIssues(corners[:2], model.BrakingAnalysis{Tendency: model.TendencyLate}, DefaultMaxIssues)
	require.Len(t, got, 1)
	assert.Equal(t, model.PriorityLow, got[0].Priority)
	assert.Equal(t, 2, got[0].Corner)
}

func TestSmoothness(t *testing.T) {
	aligned := func(throttle, steering func(i int) float64) []model.AlignedSample {
		ret := make([]model.AlignedSample, 100)
		for i := range ret {
			ret[i].Driver = model.Sample{
				Throttle: omit.From(throttle(i)),
				Steering: omit.From(steering(i)),
			}
		}
		return ret
	}

	smooth := aligned(func(int) float64 { return 100 }, func(int) float64 { return -0.3 })
	th := AnalyzeThrottle(smooth)
	assert.Equal(t, 100.0, th.Score)
	assert.Equal(t, 98, th.Qualifying)
	assert.Equal(t, "Smooth throttle application", th.Summary)
	st := AnalyzeSteering(smooth)
	assert.Equal(t, 100.0, st.Score)
	assert.Equal(t, "Smooth steering inputs", st.Summary)

	jerky := aligned(
		func(i int) float64 { return float64(60 + (i%2)*40) },
		func(i int) float64 { return 0.2 + float64(i%2)*0.3 },
	)
	th = AnalyzeThrottle(jerky)
	assert.Equal(t, 0.0, th.Score)
	assert.Equal(t, "Jerky throttle inputs - work on smoother progression", th.Summary)
	st = AnalyzeSteering(jerky)
	assert.Equal(t, 0.0, st.Score)
	assert.Equal(t, "Work on smoother steering transitions", st.Summary)

	idle := aligned(func(int) float64 { return 0 }, func(int) float64 { return 0 })
	assert.Zero(t, AnalyzeThrottle(idle).Qualifying)
	assert.Zero(t, AnalyzeThrottle(idle).Score)
}
