// Package blap decodes single lap snapshot files (.blap and .olap).
//
// Snapshots are undocumented. The decoder combines several heuristics, each of
// them may fail without failing the decode. Only an empty or unreadable file is
// reported as error.
package blap

import (
	"errors"
	"fmt"
	"io"

	"github.com/aarondl/opt/omit"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/log"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/bytereader"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/ibt"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
)

const (
	// HeadSize is the number of bytes examined at the start of a file
	HeadSize = 64 * 1024

	Magic = "BLAP"

	offDriverName = 0x10
	lenDriverName = 124
	offCarPath    = 0x90
	lenCarPath    = 64

	// limits for the embedded ibt style header
	fallbackVersion        = 2
	maxFallbackTickRate    = 360
	maxFallbackSessionInfo = 500000
)

var ErrEmpty = errors.New("empty snapshot file")

type (
	Option func(*config)
	config struct {
		logger *log.Logger
		format model.FormatKind
	}
)

func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithFormat sets the format reported in the result. Default is FormatBLAP.
func WithFormat(f model.FormatKind) Option {
	return func(c *config) {
		c.format = f
	}
}

// Decode reads a snapshot of size bytes from r.
// fileName is used for the result and as last resort for the car name.
func Decode(r io.ReaderAt, size int64, fileName string, opts ...Option) (*model.ParseResult, error) {
	cfg := &config{
		logger: log.Default().Named("blap"),
		format: model.FormatBLAP,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if size <= 0 {
		return nil, ErrEmpty
	}
	head := make([]byte, min(size, HeadSize))
	n, err := r.ReadAt(head, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read snapshot head: %w", err)
	}
	if n == 0 {
		return nil, ErrEmpty
	}
	head = head[:n]

	ret := &model.ParseResult{
		File: model.TelemetryFile{Format: cfg.format, ByteSize: size},
		Metadata: model.ResultMetadata{
			FileName:    fileName,
			FileSize:    size,
			LapTimes:    []model.LapRecord{},
			SectorTimes: []float64{},
		},
	}

	switch {
	case len(head) >= len(Magic) && string(head[:len(Magic)]) == Magic:
		decodeBLAP(head, fileName, ret, cfg.logger)
	case decodeEmbeddedSessionInfo(r, head, size, fileName, ret, cfg.logger):
	default:
		cfg.logger.Debug("no snapshot structure found, using file name",
			log.String("file", fileName))
		if car, ok := CarFromFileName(fileName); ok {
			ret.Metadata.Car = omit.From(car)
		}
	}
	return ret, nil
}

func decodeBLAP(head []byte, fileName string, ret *model.ParseResult, logger *log.Logger) {
	r := bytereader.New(head)
	md := &ret.Metadata

	carPath, _ := r.String(offCarPath, lenCarPath)
	switch name, ok := CarName(carPath); {
	case ok:
		md.Car = omit.From(name)
	case carPath != "":
		md.Car = omit.From(carPath)
	default:
		if car, ok := CarFromFileName(fileName); ok {
			md.Car = omit.From(car)
		}
	}
	if carPath != "" {
		md.CarPath = omit.From(carPath)
	}
	if driver, _ := r.String(offDriverName, lenDriverName); driver != "" {
		md.DriverName = omit.From(driver)
	}
	track, found := FindTrack(head)
	if found {
		md.Track = omit.From(track.Name)
		md.TrackPath = omit.From(track.Path)
	}
	md.LapTime = FindLapTime(head)
	if md.LapTime > 0 {
		md.LapTimes = []model.LapRecord{{Lap: 1, Time: md.LapTime}}
	}
	logger.Debug("decoded snapshot",
		log.String("car", md.Car.GetOrZero()),
		log.String("carPath", carPath),
		log.String("track", md.Track.GetOrZero()),
		log.String("trackPath", track.Path),
		log.Float64("lapTime", md.LapTime),
		log.String("driver", md.DriverName.GetOrZero()))
}

// decodeEmbeddedSessionInfo handles snapshots carrying an ibt style header.
// It reports false if the header is not plausible or no usable key was found.
func decodeEmbeddedSessionInfo(
	ra io.ReaderAt,
	head []byte,
	size int64,
	fileName string,
	ret *model.ParseResult,
	logger *log.Logger,
) bool {
	r := bytereader.New(head)
	version, err1 := r.Int32(0x00)
	tickRate, err2 := r.Int32(0x08)
	infoLen, err3 := r.Int32(0x10)
	infoOffset, err4 := r.Int32(0x14)
	if err := errors.Join(err1, err2, err3, err4); err != nil {
		return false
	}
	if version != fallbackVersion || tickRate <= 0 || tickRate > maxFallbackTickRate {
		return false
	}
	if infoOffset <= 0 || int64(infoOffset) >= size ||
		infoLen <= 0 || infoLen >= maxFallbackSessionInfo {
		return false
	}
	buf := make([]byte, infoLen)
	n, err := ra.ReadAt(buf, int64(infoOffset))
	if err != nil && !errors.Is(err, io.EOF) {
		logger.Debug("could not read session info", log.ErrorField(err))
		return false
	}
	text := string(buf[:n])
	track, hasTrack := ibt.SessionInfoValue(text, "TrackDisplayName")
	car, hasCar := ibt.SessionInfoValue(text, "CarScreenName")
	if !hasTrack && !hasCar {
		return false
	}
	md := &ret.Metadata
	if hasTrack {
		md.Track = omit.From(track)
		ret.Session.TrackDisplayName = omit.From(track)
	}
	if hasCar {
		md.Car = omit.From(car)
		ret.Session.CarName = omit.From(car)
	} else if c, ok := CarFromFileName(fileName); ok {
		md.Car = omit.From(c)
	}
	logger.Debug("decoded snapshot session info",
		log.String("track", track),
		log.String("car", md.Car.GetOrZero()))
	return true
}
