package model

import (
	"time"

	"github.com/google/uuid"
)

// StoredSession is the persisted summary of an imported telemetry file.
// Unknown text values are stored as NULL and read back as empty strings.
type StoredSession struct {
	ID          uuid.UUID
	FileName    string
	FileHash    string
	Format      FormatKind
	Track       string
	TrackShort  string
	TrackConfig string
	Car         string
	CarPath     string
	SessionType string
	BestLapTime float64
	SectorTimes []float64
	TickRate    int
	Duration    float64
	ImportedAt  time.Time
}

// StoredLap is one lap of an imported session
type StoredLap struct {
	ID        int
	SessionID uuid.UUID
	Lap       int
	LapTime   float64
}

// NewStoredSession builds the persistence record for a parse result
func NewStoredSession(id uuid.UUID, hash string, pr *ParseResult) *StoredSession {
	md := pr.Metadata
	return &StoredSession{
		ID:          id,
		FileName:    md.FileName,
		FileHash:    hash,
		Format:      pr.File.Format,
		Track:       md.Track.GetOrZero(),
		TrackShort:  md.TrackShort.GetOrZero(),
		TrackConfig: md.TrackConfig.GetOrZero(),
		Car:         md.Car.GetOrZero(),
		CarPath:     md.CarPath.GetOrZero(),
		SessionType: md.SessionType.GetOrZero(),
		BestLapTime: md.LapTime,
		SectorTimes: md.SectorTimes,
		TickRate:    md.TickRate,
		Duration:    md.Duration,
	}
}
