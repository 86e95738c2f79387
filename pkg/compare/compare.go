// Package compare contains the lap comparison engine.
//
// Two laps are resampled onto a common distance axis. Based on the aligned
// samples the engine compares sectors, corners, braking points and the
// smoothness of the driver inputs and ranks the biggest time losses.
package compare

import (
	"github.com/mpapenbr/iracelog-telemetry-analyzer/log"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/analysis/corner"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
)

const (
	DefaultBins       = 500
	DefaultMaxIssues  = 5
	brakeSearchWindow = 50 // aligned samples
)

// Lap is one side of a comparison
type Lap struct {
	Metadata    model.ResultMetadata
	LapTime     float64
	SectorTimes []float64
	Samples     []model.Sample
}

// FromLapTelemetry builds a Lap from decoded per lap telemetry
func FromLapTelemetry(md model.ResultMetadata, lt *model.LapTelemetry) Lap {
	return Lap{
		Metadata:    md,
		LapTime:     lt.LapTime,
		SectorTimes: lt.SectorTimes,
		Samples:     lt.Samples,
	}
}

// FromParseResult builds a Lap from a parse result using the best lap time
// and the session telemetry
func FromParseResult(pr *model.ParseResult) Lap {
	return Lap{
		Metadata:    pr.Metadata,
		LapTime:     pr.Metadata.LapTime,
		SectorTimes: pr.Metadata.SectorTimes,
		Samples:     pr.Telemetry,
	}
}

type (
	Option func(*Engine)
	Engine struct {
		bins          int
		maxIssues     int
		cornerOptions []corner.Option
		logger        *log.Logger
	}
)

func WithBins(n int) Option {
	return func(e *Engine) { e.bins = n }
}

func WithMaxIssues(n int) Option {
	return func(e *Engine) { e.maxIssues = n }
}

func WithCornerOptions(opts ...corner.Option) Option {
	return func(e *Engine) { e.cornerOptions = append(e.cornerOptions, opts...) }
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		bins:      DefaultBins,
		maxIssues: DefaultMaxIssues,
		logger:    log.Default().Named("compare"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compare compares the driver lap against the reference lap.
// Missing or too short telemetry produces empty sections, never an error.
func (e *Engine) Compare(driver, reference Lap) *model.ComparisonResult {
	aligned := Align(driver.Samples, reference.Samples, e.bins)
	corners := e.compareCorners(driver.Samples, reference.Samples)
	inputs := model.InputAnalysis{
		Braking:  AnalyzeBraking(aligned),
		Throttle: AnalyzeThrottle(aligned),
		Steering: AnalyzeSteering(aligned),
	}
	ret := &model.ComparisonResult{
		TimeDelta:    driver.LapTime - reference.LapTime,
		Sectors:      CompareSectors(driver.SectorTimes, reference.SectorTimes),
		Corners:      corners,
		Inputs:       inputs,
		TopIssues:    TopIssues(corners, inputs.Braking, e.maxIssues),
		Aligned:      aligned,
		DriverLap:    driver.Metadata,
		ReferenceLap: reference.Metadata,
	}
	e.logger.Debug("compared laps",
		log.Float64("timeDelta", ret.TimeDelta),
		log.Int("aligned", len(aligned)),
		log.Int("corners", len(corners)),
		log.Int("brakePoints", len(inputs.Braking.BrakePoints)),
		log.Int("issues", len(ret.TopIssues)))
	return ret
}
