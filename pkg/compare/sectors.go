package compare

import (
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
)

// CompareSectors compares sector times pairwise. Sectors without a counterpart
// are ignored.
func CompareSectors(driver, reference []float64) []model.SectorComparison {
	n := min(len(driver), len(reference))
	ret := make([]model.SectorComparison, 0, n)
	for i := range n {
		d := driver[i] - reference[i]
		pct := 0.0
		if reference[i] != 0 {
			pct = d / reference[i] * 100
		}
		status := model.SectorFaster
		if d > 0 {
			status = model.SectorSlower
		}
		ret = append(ret, model.SectorComparison{
			Sector:        i + 1,
			DriverTime:    driver[i],
			ReferenceTime: reference[i],
			Delta:         d,
			Percentage:    pct,
			Status:        status,
		})
	}
	return ret
}
