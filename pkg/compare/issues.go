package compare

import (
	"cmp"
	"slices"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
)

const (
	minCornerTimeLoss   = 0.05 // s
	highPriorityLoss    = 0.2
	mediumPriorityLoss  = 0.1
	earlyBrakingPenalty = 0.3
)

// TopIssues ranks corner time losses and systematic early braking by the
// estimated time loss and returns at most limit entries.
func TopIssues(
	corners []model.CornerComparison,
	braking model.BrakingAnalysis,
	limit int,
) []model.Issue {
	ret := []model.Issue{}
	for _, c := range corners {
		if c.EstimatedTimeLoss <= minCornerTimeLoss {
			continue
		}
		ret = append(ret, model.Issue{
			Type:        model.IssueCorner,
			Corner:      c.Corner,
			TimeLoss:    c.EstimatedTimeLoss,
			Description: string(c.Diagnosis),
			Priority:    priority(c.EstimatedTimeLoss),
		})
	}
	if braking.Tendency == model.TendencyEarly {
		ret = append(ret, model.Issue{
			Type:        model.IssueBraking,
			TimeLoss:    earlyBrakingPenalty,
			Description: braking.Summary,
			Priority:    model.PriorityHigh,
		})
	}
	slices.SortStableFunc(ret, func(a, b model.Issue) int {
		return cmp.Compare(b.TimeLoss, a.TimeLoss)
	})
	if limit >= 0 && len(ret) > limit {
		ret = ret[:limit]
	}
	return ret
}

func priority(loss float64) model.Priority {
	switch {
	case loss > highPriorityLoss:
		return model.PriorityHigh
	case loss > mediumPriorityLoss:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}
