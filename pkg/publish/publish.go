// Package publish sends summaries of parsed files to NATS subjects.
package publish

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/log"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
)

const DefaultSubject = "telemetry.parsed"

// Conn is the part of *nats.Conn used by the publisher
type Conn interface {
	Publish(subj string, data []byte) error
}

var _ Conn = (*nats.Conn)(nil)

// Summary is the message payload. It carries no telemetry samples.
type Summary struct {
	FileName    string            `json:"fileName"`
	Format      model.FormatKind  `json:"format"`
	Track       string            `json:"track,omitempty"`
	Car         string            `json:"car,omitempty"`
	DriverName  string            `json:"driverName,omitempty"`
	SessionType string            `json:"sessionType,omitempty"`
	LapTime     float64           `json:"lapTime"`
	LapTimes    []model.LapRecord `json:"lapTimes"`
	ParsedAt    time.Time         `json:"parsedAt"`
}

func NewSummary(pr *model.ParseResult) Summary {
	md := pr.Metadata
	laps := md.LapTimes
	if laps == nil {
		laps = []model.LapRecord{}
	}
	return Summary{
		FileName:    md.FileName,
		Format:      pr.File.Format,
		Track:       md.Track.GetOrZero(),
		Car:         md.Car.GetOrZero(),
		DriverName:  md.DriverName.GetOrZero(),
		SessionType: md.SessionType.GetOrZero(),
		LapTime:     md.LapTime,
		LapTimes:    laps,
		ParsedAt:    md.ParsedAt,
	}
}

type (
	Option    func(*Publisher)
	Publisher struct {
		conn    Conn
		subject string
		logger  *log.Logger
	}
)

// WithSubject sets the subject prefix, the format is appended
func WithSubject(s string) Option {
	return func(p *Publisher) { p.subject = s }
}

func WithLogger(l *log.Logger) Option {
	return func(p *Publisher) { p.logger = l }
}

func New(conn Conn, opts ...Option) *Publisher {
	p := &Publisher{
		conn:    conn,
		subject: DefaultSubject,
		logger:  log.Default().Named("publish"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Subject returns the subject used for a format, e.g. telemetry.parsed.ibt
func (p *Publisher) Subject(format model.FormatKind) string {
	return fmt.Sprintf("%s.%s", p.subject, format)
}

// Publish sends the summary of pr
func (p *Publisher) Publish(pr *model.ParseResult) error {
	data, err := json.Marshal(NewSummary(pr))
	if err != nil {
		return err
	}
	subject := p.Subject(pr.File.Format)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	p.logger.Debug("published summary",
		log.String("subject", subject),
		log.String("file", pr.Metadata.FileName))
	return nil
}

// Connect opens a NATS connection with reconnect settings suited for a
// long running watcher
func Connect(url string, name string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name(name),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
