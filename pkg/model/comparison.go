package model

import (
	"encoding/json"

	"github.com/aarondl/opt/omit"
)

type (
	SectorStatus    string
	CornerDiagnosis string
	BrakeTiming     string
	BrakeTendency   string
	IssueType       string
	Priority        string
)

const (
	SectorFaster SectorStatus = "faster"
	SectorSlower SectorStatus = "slower"
)

const (
	DiagnosisSlowEntry   CornerDiagnosis = "Too slow on entry - brake later or carry more speed"
	DiagnosisLowApex     CornerDiagnosis = "Low apex speed - work on line and corner speed"
	DiagnosisPoorExit    CornerDiagnosis = "Poor exit - earlier throttle application needed"
	DiagnosisFastEntry   CornerDiagnosis = "Entry too fast - may be overdriving"
	DiagnosisGood        CornerDiagnosis = "Good corner execution"
	DiagnosisMinorIssues CornerDiagnosis = "Minor differences - refinement needed"
)

const (
	BrakeEarly   BrakeTiming = "early"
	BrakeLate    BrakeTiming = "late"
	BrakeMatched BrakeTiming = "matched"
)

const (
	TendencyNone     BrakeTendency = "none"
	TendencyEarly    BrakeTendency = "early"
	TendencyLate     BrakeTendency = "late"
	TendencyBalanced BrakeTendency = "balanced"
)

const (
	IssueCorner  IssueType = "corner"
	IssueBraking IssueType = "braking"
)

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Corner is a corner identified within a single lap. Speeds in km/h, distances in m.
type Corner struct {
	Index         int     `json:"index"`
	Distance      float64 `json:"distance"` // apex
	EntryDistance float64 `json:"entryDistance"`
	ExitDistance  float64 `json:"exitDistance"`
	EntrySpeed    float64 `json:"entrySpeed"`
	ApexSpeed     float64 `json:"apexSpeed"`
	ExitSpeed     float64 `json:"exitSpeed"`
}

// AlignedSample pairs driver and reference samples at the same lap distance
type AlignedSample struct {
	Distance      float64
	Driver        Sample
	Reference     Sample
	SpeedDelta    omit.Val[float64]
	ThrottleDelta omit.Val[float64]
	BrakeDelta    omit.Val[float64]
	SteeringDelta omit.Val[float64]
}

func (a AlignedSample) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Distance      float64  `json:"distance"`
		Driver        Sample   `json:"driver"`
		Reference     Sample   `json:"reference"`
		SpeedDelta    *float64 `json:"speedDelta,omitempty"`
		ThrottleDelta *float64 `json:"throttleDelta,omitempty"`
		BrakeDelta    *float64 `json:"brakeDelta,omitempty"`
		SteeringDelta *float64 `json:"steeringDelta,omitempty"`
	}{
		a.Distance, a.Driver, a.Reference,
		ptr(a.SpeedDelta), ptr(a.ThrottleDelta), ptr(a.BrakeDelta), ptr(a.SteeringDelta),
	})
}

type SectorComparison struct {
	Sector        int          `json:"sector"`
	DriverTime    float64      `json:"driverTime"`
	ReferenceTime float64      `json:"referenceTime"`
	Delta         float64      `json:"delta"`
	Percentage    float64      `json:"percentage"`
	Status        SectorStatus `json:"status"`
}

type SpeedDelta struct {
	DriverSpeed    float64 `json:"driverSpeed"`
	ReferenceSpeed float64 `json:"referenceSpeed"`
	Delta          float64 `json:"delta"`
}

type CornerComparison struct {
	Corner            int             `json:"corner"`
	Distance          float64         `json:"distance"`
	Entry             SpeedDelta      `json:"entry"`
	Apex              SpeedDelta      `json:"apex"`
	Exit              SpeedDelta      `json:"exit"`
	EstimatedTimeLoss float64         `json:"estimatedTimeLoss"`
	Diagnosis         CornerDiagnosis `json:"issue"`
}

type BrakePoint struct {
	Distance           float64     `json:"distance"`
	DriverSpeed        float64     `json:"driverSpeed"`
	ReferenceSpeed     float64     `json:"referenceSpeed"`
	DistanceDifference float64     `json:"distanceDifference"`
	Timing             BrakeTiming `json:"timing"`
	Issue              string      `json:"issue"`
}

type BrakingAnalysis struct {
	BrakePoints []BrakePoint  `json:"brakePoints"`
	Tendency    BrakeTendency `json:"tendency"`
	Summary     string        `json:"summary"`
}

type SmoothnessAnalysis struct {
	Score      float64 `json:"smoothnessScore"` // percent
	Qualifying int     `json:"qualifying"`
	Smooth     int     `json:"smooth"`
	Summary    string  `json:"summary"`
}

type InputAnalysis struct {
	Braking  BrakingAnalysis    `json:"braking"`
	Throttle SmoothnessAnalysis `json:"throttle"`
	Steering SmoothnessAnalysis `json:"steering"`
}

type Issue struct {
	Type        IssueType `json:"type"`
	Corner      int       `json:"corner,omitempty"`
	TimeLoss    float64   `json:"timeLoss"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
}

type ComparisonResult struct {
	TimeDelta    float64            `json:"timeDelta"`
	Sectors      []SectorComparison `json:"sectorComparison"`
	Corners      []CornerComparison `json:"cornerComparison"`
	Inputs       InputAnalysis      `json:"inputAnalysis"`
	TopIssues    []Issue            `json:"topIssues"`
	Aligned      []AlignedSample    `json:"-"`
	DriverLap    ResultMetadata     `json:"driverLap"`
	ReferenceLap ResultMetadata     `json:"referenceLap"`
}
