package compare

import (
	"math"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/log"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/analysis/corner"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
)

const (
	nominalCornerLength = 100.0 // m

	diagnosisBadDelta  = 3.0 // km/h
	diagnosisGoodDelta = 2.0 // km/h
)

// compareCorners matches corners by their order within the lap.
// Additional corners of the longer list are ignored.
func (e *Engine) compareCorners(driver, reference []model.Sample) []model.CornerComparison {
	dc := corner.Identify(driver, e.cornerOptions...)
	rc := corner.Identify(reference, e.cornerOptions...)
	if len(dc) != len(rc) {
		e.logger.Debug("corner count differs",
			log.Int("driver", len(dc)),
			log.Int("reference", len(rc)))
	}
	n := min(len(dc), len(rc))
	ret := make([]model.CornerComparison, 0, n)
	for i := range n {
		ret = append(ret, CompareCorner(dc[i], rc[i]))
	}
	return ret
}

// CompareCorner compares a single pair of corners
func CompareCorner(d, r model.Corner) model.CornerComparison {
	entry := speedDelta(d.EntrySpeed, r.EntrySpeed)
	apex := speedDelta(d.ApexSpeed, r.ApexSpeed)
	exit := speedDelta(d.ExitSpeed, r.ExitSpeed)
	return model.CornerComparison{
		Corner:            d.Index,
		Distance:          d.Distance,
		Entry:             entry,
		Apex:              apex,
		Exit:              exit,
		EstimatedTimeLoss: EstimateTimeLoss(d.ApexSpeed, r.ApexSpeed),
		Diagnosis:         Diagnose(entry.Delta, apex.Delta, exit.Delta),
	}
}

func speedDelta(d, r float64) model.SpeedDelta {
	return model.SpeedDelta{DriverSpeed: d, ReferenceSpeed: r, Delta: d - r}
}

// EstimateTimeLoss estimates the time lost in a corner of nominal length when
// driven at the apex speeds (km/h). The result is 0 if a speed is not positive.
func EstimateTimeLoss(driverApex, referenceApex float64) float64 {
	if driverApex <= 0 || referenceApex <= 0 {
		return 0
	}
	return nominalCornerLength/driverApex - nominalCornerLength/referenceApex
}

// Diagnose classifies a corner by its speed deltas (driver - reference).
// The rules are checked in order, the first match wins.
func Diagnose(entry, apex, exit float64) model.CornerDiagnosis {
	switch {
	case entry < -diagnosisBadDelta:
		return model.DiagnosisSlowEntry
	case apex < -diagnosisBadDelta:
		return model.DiagnosisLowApex
	case exit < -diagnosisBadDelta:
		return model.DiagnosisPoorExit
	case entry > diagnosisBadDelta:
		return model.DiagnosisFastEntry
	case math.Abs(entry) < diagnosisGoodDelta &&
		math.Abs(apex) < diagnosisGoodDelta &&
		math.Abs(exit) < diagnosisGoodDelta:
		return model.DiagnosisGood
	default:
		return model.DiagnosisMinorIssues
	}
}
