package ibt

import (
	"github.com/mpapenbr/iracelog-telemetry-analyzer/log"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/bytereader"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
)

type (
	Option func(*config)
	config struct {
		logger *log.Logger
	}
)

func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// File is a decoded ibt file
type File struct {
	Header      Header
	Vars        VarHeaders
	SessionInfo string
	Session     model.SessionMetadata

	r      *bytereader.Reader
	logger *log.Logger
}

// Decode parses header, variable headers and session info of buf.
// The record data itself is read lazily by Laps, SessionSamples and LapSamples.
func Decode(buf []byte, opts ...Option) (*File, error) {
	cfg := &config{logger: log.Default().Named("ibt")}
	for _, opt := range opts {
		opt(cfg)
	}
	h, err := ParseHeader(buf)
	if err != nil {
		return nil, err
	}
	r := bytereader.New(buf)
	vars := ParseVarHeaders(r, h, func(v VarHeader) {
		cfg.logger.Debug("dropping channel exceeding record stride",
			log.String("name", v.Name),
			log.Int("offset", v.Offset),
			log.Int("size", v.Size()),
			log.Int32("stride", h.BufLen))
	})
	text := SessionInfoText(buf, h)
	f := &File{
		Header:      h,
		Vars:        vars,
		SessionInfo: text,
		Session:     ExtractSessionMetadata(text),
		r:           r,
		logger:      cfg.logger,
	}
	cfg.logger.Debug("decoded ibt header",
		log.Int32("version", h.Version),
		log.Int32("tickRate", h.TickRate),
		log.Int("records", h.RecordCount),
		log.Int("channels", len(vars)))
	return f, nil
}

// TelemetryFile returns the format summary of f
func (f *File) TelemetryFile() model.TelemetryFile {
	return model.TelemetryFile{
		Format:       model.FormatIBT,
		TickRate:     int(f.Header.TickRate),
		RecordStride: int(f.Header.BufLen),
		RecordCount:  f.Header.RecordCount,
		ByteSize:     int64(f.r.Len()),
	}
}

// value reads channel name of record idx. ok is false if the channel is missing
// or the read would leave the buffer.
func (f *File) value(idx int, name string) (float64, bool) {
	v, found := f.Vars[name]
	if !found {
		return 0, false
	}
	x, err := ReadValue(f.r, f.Header.RecordOffset(idx), v)
	if err != nil {
		return 0, false
	}
	return x, true
}

// recordFits reports whether record idx lies completely inside the buffer
func (f *File) recordFits(idx int) bool {
	return f.r.Fits(f.Header.RecordOffset(idx), int(f.Header.BufLen))
}
