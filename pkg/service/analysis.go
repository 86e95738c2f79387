//nolint:whitespace //can't make both the linter and editor happy :(
package service

import (
	"context"
	"fmt"

	"github.com/aarondl/opt/omit"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/log"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/compare"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/parser"
)

// LapRef references a lap within a telemetry file.
// If Lap is not set the fastest recorded lap of the file is used.
type LapRef struct {
	Path string
	Lap  omit.Val[int]
}

func (r LapRef) String() string {
	if lap, ok := r.Lap.Get(); ok {
		return fmt.Sprintf("%s#%d", r.Path, lap)
	}
	return r.Path
}

type AnalysisService struct {
	parser *parser.Parser
	engine *compare.Engine
	logger *log.Logger
}

func NewAnalysisService(p *parser.Parser, e *compare.Engine) *AnalysisService {
	return &AnalysisService{
		parser: p,
		engine: e,
		logger: log.Default().Named("analysis"),
	}
}

// CompareLaps decodes both laps and compares the driver lap against the reference
func (s *AnalysisService) CompareLaps(
	ctx context.Context,
	driver, reference LapRef,
) (*model.ComparisonResult, error) {
	d, err := s.loadLap(ctx, driver)
	if err != nil {
		return nil, fmt.Errorf("driver lap %s: %w", driver, err)
	}
	r, err := s.loadLap(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("reference lap %s: %w", reference, err)
	}
	return s.engine.Compare(d, r), nil
}

// LoadLap decodes the lap referenced by ref
func (s *AnalysisService) LoadLap(ctx context.Context, ref LapRef) (compare.Lap, error) {
	return s.loadLap(ctx, ref)
}

func (s *AnalysisService) loadLap(ctx context.Context, ref LapRef) (compare.Lap, error) {
	pr, err := s.parser.ParseFile(ctx, ref.Path)
	if err != nil {
		return compare.Lap{}, err
	}
	if pr.File.Format != model.FormatIBT {
		return compare.FromParseResult(pr), nil
	}
	lap, ok := ref.Lap.Get()
	if !ok {
		lap, ok = FastestLap(pr.Metadata)
		if !ok {
			s.logger.Warn("no lap time recorded, using session telemetry",
				log.String("file", ref.Path))
			return compare.FromParseResult(pr), nil
		}
	}
	lt, err := s.parser.ParseLapTelemetry(ctx, ref.Path, lap)
	if err != nil {
		return compare.Lap{}, err
	}
	s.logger.Debug("loaded lap",
		log.String("file", ref.Path),
		log.Int("lap", lap),
		log.Int("samples", lt.SampleCount),
		log.Float64("lapTime", lt.LapTime))
	return compare.FromLapTelemetry(parser.ResultMetadataForLap(pr, lt), lt), nil
}

// FastestLap returns the number of the lap with the lowest recorded time.
// A lap time is recorded when the following lap starts.
func FastestLap(md model.ResultMetadata) (int, bool) {
	best := -1
	for i, l := range md.LapTimes {
		if best < 0 || l.Time < md.LapTimes[best].Time {
			best = i
		}
	}
	if best < 0 {
		return 0, false
	}
	return md.LapTimes[best].Lap - 1, true
}
