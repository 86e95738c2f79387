// Package parser is the entry point for decoding telemetry files.
//
// The file extension selects the decoder: .ibt files are decoded completely,
// .blap and .olap snapshot files only provide metadata and the lap time.
package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/log"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/analysis/sector"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/blap"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/ibt"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/utils/cache"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/utils/cache/loadercache"
)

// FormatOf returns the format selected by the extension of path
func FormatOf(path string) (model.FormatKind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".ibt":
		return model.FormatIBT, nil
	case ".blap":
		return model.FormatBLAP, nil
	case ".olap":
		return model.FormatOLAP, nil
	default:
		return "", &UnsupportedFormatError{Ext: ext}
	}
}

// IsSupported reports whether path has a supported extension
func IsSupported(path string) bool {
	_, err := FormatOf(path)
	return err == nil
}

// fileKey identifies a file version. A changed file gets a new key.
type fileKey struct {
	path    string
	size    int64
	modTime time.Time
}

type (
	Option func(*Parser)
	Parser struct {
		logger          *log.Logger
		now             func() time.Time
		sectors         int
		cacheExpiration time.Duration
		cacheSize       int
		cache           cache.Cache[fileKey, ibt.File]
	}
)

func WithLogger(l *log.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// WithCache keeps decoded ibt files for the given duration.
// At most size files are kept, 0 means unlimited.
func WithCache(expiration time.Duration, size int) Option {
	return func(p *Parser) {
		p.cacheExpiration = expiration
		p.cacheSize = size
	}
}

// WithClock replaces time.Now for the parsedAt timestamp
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

// WithSectorCount sets the number of sectors computed for lap telemetry
func WithSectorCount(n int) Option {
	return func(p *Parser) { p.sectors = n }
}

func New(opts ...Option) *Parser {
	p := &Parser{
		logger:  log.Default().Named("parser"),
		now:     time.Now,
		sectors: sector.DefaultCount,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.cacheExpiration > 0 {
		p.cache = loadercache.New(
			loadercache.WithLoader[fileKey, ibt.File](p.loadIBT),
			loadercache.WithExpiration[fileKey, ibt.File](p.cacheExpiration),
			loadercache.WithMaxItems[fileKey, ibt.File](p.cacheSize),
			loadercache.WithLogger[fileKey, ibt.File](p.logger.Named("cache")),
		)
	}
	return p
}

//nolint:gochecknoglobals // package level convenience
var defaultParser = New()

// ParseFile decodes path with a parser using default options
func ParseFile(ctx context.Context, path string) (*model.ParseResult, error) {
	return defaultParser.ParseFile(ctx, path)
}

// ParseLapTelemetry decodes a single lap of path with a parser using default options
func ParseLapTelemetry(ctx context.Context, path string, lap int) (*model.LapTelemetry, error) {
	return defaultParser.ParseLapTelemetry(ctx, path, lap)
}

// ParseFile decodes the file at path
func (p *Parser) ParseFile(ctx context.Context, path string) (*model.ParseResult, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	var ret *model.ParseResult
	if format == model.FormatIBT {
		ret, err = p.parseIBT(ctx, path)
	} else {
		ret, err = p.parseSnapshot(ctx, path, format)
	}
	if err != nil {
		return nil, err
	}
	ret.Metadata.ParsedAt = p.now()
	p.logger.Debug("parsed file",
		log.String("file", path),
		log.String("format", string(format)),
		log.String("track", ret.Metadata.Track.GetOrZero()),
		log.String("car", ret.Metadata.Car.GetOrZero()),
		log.Float64("lapTime", ret.Metadata.LapTime),
		log.Int("laps", len(ret.Metadata.LapTimes)))
	return ret, nil
}

func (p *Parser) parseIBT(ctx context.Context, path string) (*model.ParseResult, error) {
	f, err := p.decodeIBT(ctx, path)
	if err != nil {
		return nil, err
	}
	laps := f.Laps()
	s := f.Session
	tf := f.TelemetryFile()
	return &model.ParseResult{
		File: tf,
		Metadata: model.ResultMetadata{
			Track:       s.Track(),
			TrackShort:  s.TrackShortName,
			TrackConfig: s.TrackConfig,
			TrackLength: s.TrackLength,
			Car:         s.CarName,
			CarPath:     s.CarPath,
			SessionType: s.SessionType,
			LapTime:     laps.BestLapTime,
			LapTimes:    laps.Laps,
			SectorTimes: []float64{},
			TickRate:    tf.TickRate,
			Records:     tf.RecordCount,
			Duration:    f.Header.Duration(),
			FileName:    filepath.Base(path),
			FileSize:    tf.ByteSize,
		},
		Session:   s,
		Telemetry: f.SessionSamples(),
	}, nil
}

func (p *Parser) parseSnapshot(
	ctx context.Context,
	path string,
	format model.FormatKind,
) (*model.ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	st, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return blap.Decode(file, st.Size(), filepath.Base(path),
		blap.WithFormat(format),
		blap.WithLogger(p.logger.Named("blap")))
}

// ParseLapTelemetry returns the samples of a single lap of an ibt file.
// Snapshot files carry no telemetry, they yield an empty sample list.
func (p *Parser) ParseLapTelemetry(
	ctx context.Context,
	path string,
	lap int,
) (*model.LapTelemetry, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format != model.FormatIBT {
		pr, err := p.parseSnapshot(ctx, path, format)
		if err != nil {
			return nil, err
		}
		return &model.LapTelemetry{
			Lap:         lap,
			LapTime:     pr.Metadata.LapTime,
			Samples:     []model.Sample{},
			Track:       pr.Metadata.Track,
			Car:         pr.Metadata.Car,
			SectorTimes: []float64{},
		}, nil
	}

	f, err := p.decodeIBT(ctx, path)
	if err != nil {
		return nil, err
	}
	samples := f.LapSamples(lap)
	trackLength := lo.Max(lo.Map(samples, func(s model.Sample, _ int) float64 {
		return s.LapDist.GetOrZero()
	}))
	if km, ok := f.Session.TrackLengthKm.Get(); ok && km > 0 {
		trackLength = km * 1000
	}
	return &model.LapTelemetry{
		Lap:         lap,
		LapTime:     lapTime(f.Laps().Laps, lap),
		Samples:     samples,
		SampleCount: len(samples),
		TrackLength: trackLength,
		TickRate:    int(f.Header.TickRate),
		Track:       f.Session.Track(),
		Car:         f.Session.CarName,
		HasTrackMap: lo.SomeBy(samples, func(s model.Sample) bool {
			return s.Lat.GetOrZero() != 0
		}),
		SectorTimes: sector.Times(samples, trackLength, p.sectors),
	}, nil
}

// lapTime returns the recorded time of lap or 0 if the lap is unknown.
// The time of a lap is reported at the transition to the following lap.
func lapTime(laps []model.LapRecord, lap int) float64 {
	for _, l := range laps {
		if l.Lap == lap+1 {
			return l.Time
		}
	}
	return 0
}

func (p *Parser) decodeIBT(ctx context.Context, path string) (*ibt.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.cache == nil {
		return p.loadIBT(ctx, fileKey{path: path})
	}
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return p.cache.Get(ctx, fileKey{path: abs, size: st.Size(), modTime: st.ModTime()})
}

func (p *Parser) loadIBT(ctx context.Context, key fileKey) (*ibt.File, error) {
	buf, err := os.ReadFile(key.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key.path, err)
	}
	f, err := ibt.Decode(buf, ibt.WithLogger(p.logger.Named("ibt")))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key.path, err)
	}
	return f, nil
}

// ResultMetadataForLap narrows the file metadata to the lap in lt
func ResultMetadataForLap(pr *model.ParseResult, lt *model.LapTelemetry) model.ResultMetadata {
	md := pr.Metadata
	md.LapTime = lt.LapTime
	md.SectorTimes = lt.SectorTimes
	if lt.LapTime > 0 {
		md.LapTimes = []model.LapRecord{{Lap: lt.Lap, Time: lt.LapTime}}
	}
	if !md.Track.IsSet() {
		md.Track = lt.Track
	}
	if !md.Car.IsSet() {
		md.Car = lt.Car
	}
	return md
}
