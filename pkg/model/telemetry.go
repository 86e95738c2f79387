package model

import (
	"encoding/json"
	"time"

	"github.com/aarondl/opt/omit"
)

type FormatKind string

const (
	FormatIBT  FormatKind = "ibt"
	FormatBLAP FormatKind = "blap"
	FormatOLAP FormatKind = "olap"
)

// TelemetryFile describes one decoded input file.
// TickRate, RecordStride and RecordCount are only set for the high-frequency format.
type TelemetryFile struct {
	Format       FormatKind `json:"format"`
	TickRate     int        `json:"tickRate,omitempty"`
	RecordStride int        `json:"recordStride,omitempty"`
	RecordCount  int        `json:"recordCount,omitempty"`
	ByteSize     int64      `json:"byteSize"`
}

// SessionMetadata holds the values extracted from the session info block.
// Every field is optional, a missing key stays unset.
type SessionMetadata struct {
	TrackName        omit.Val[string]
	TrackDisplayName omit.Val[string]
	TrackShortName   omit.Val[string]
	TrackConfig      omit.Val[string]
	TrackLength      omit.Val[string]  // raw value, e.g. "7.00 km"
	TrackLengthKm    omit.Val[float64] // parsed from TrackLength
	CarName          omit.Val[string]
	CarPath          omit.Val[string]
	SessionType      omit.Val[string]
	DriverCarIdx     omit.Val[int]
}

// Track returns the display name, falling back to the internal track name
func (m SessionMetadata) Track() omit.Val[string] {
	if m.TrackDisplayName.IsSet() {
		return m.TrackDisplayName
	}
	return m.TrackName
}

//nolint:tagliatelle // keep names of session info
func (m SessionMetadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TrackName        *string  `json:"trackName,omitempty"`
		TrackDisplayName *string  `json:"trackDisplayName,omitempty"`
		TrackShortName   *string  `json:"trackDisplayShortName,omitempty"`
		TrackConfig      *string  `json:"trackConfigName,omitempty"`
		TrackLength      *string  `json:"trackLength,omitempty"`
		TrackLengthKm    *float64 `json:"trackLengthKm,omitempty"`
		CarName          *string  `json:"carScreenName,omitempty"`
		CarPath          *string  `json:"carPath,omitempty"`
		SessionType      *string  `json:"sessionType,omitempty"`
		DriverCarIdx     *int     `json:"driverCarIdx,omitempty"`
	}{
		ptr(m.TrackName), ptr(m.TrackDisplayName), ptr(m.TrackShortName),
		ptr(m.TrackConfig), ptr(m.TrackLength), ptr(m.TrackLengthKm),
		ptr(m.CarName), ptr(m.CarPath), ptr(m.SessionType), ptr(m.DriverCarIdx),
	})
}

// LapRecord is a completed lap as reported by the simulation
type LapRecord struct {
	Lap  int     `json:"lap"`
	Time float64 `json:"time"` // seconds
}

// Sample is one point of a telemetry series.
// Time is always present, all other values are only set if the source file
// contains the corresponding channel.
type Sample struct {
	Time              float64
	Speed             omit.Val[float64] // km/h
	Throttle          omit.Val[float64] // 0-100
	Brake             omit.Val[float64] // 0-100
	Steering          omit.Val[float64] // rad
	RPM               omit.Val[float64]
	Gear              omit.Val[int]
	Lap               omit.Val[int]
	LapDist           omit.Val[float64] // m
	LapDistPct        omit.Val[float64] // 0-1
	LapCurrentLapTime omit.Val[float64]
	Lat               omit.Val[float64]
	Lon               omit.Val[float64]
	Alt               omit.Val[float64]
	Yaw               omit.Val[float64]
	VelocityX         omit.Val[float64]
	VelocityZ         omit.Val[float64]
}

// Distance returns the lap distance of the sample
func (s Sample) Distance() (float64, bool) {
	return s.LapDist.Get()
}

func (s Sample) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Time              float64  `json:"time"`
		Speed             *float64 `json:"speed,omitempty"`
		Throttle          *float64 `json:"throttle,omitempty"`
		Brake             *float64 `json:"brake,omitempty"`
		Steering          *float64 `json:"steering,omitempty"`
		RPM               *float64 `json:"rpm,omitempty"`
		Gear              *int     `json:"gear,omitempty"`
		Lap               *int     `json:"lap,omitempty"`
		LapDist           *float64 `json:"dist,omitempty"`
		LapDistPct        *float64 `json:"distPct,omitempty"`
		LapCurrentLapTime *float64 `json:"lapTime,omitempty"`
		Lat               *float64 `json:"lat,omitempty"`
		Lon               *float64 `json:"lon,omitempty"`
		Alt               *float64 `json:"alt,omitempty"`
		Yaw               *float64 `json:"yaw,omitempty"`
		VelocityX         *float64 `json:"velocityX,omitempty"`
		VelocityZ         *float64 `json:"velocityZ,omitempty"`
	}{
		s.Time,
		ptr(s.Speed), ptr(s.Throttle), ptr(s.Brake), ptr(s.Steering), ptr(s.RPM),
		ptr(s.Gear), ptr(s.Lap), ptr(s.LapDist), ptr(s.LapDistPct),
		ptr(s.LapCurrentLapTime), ptr(s.Lat), ptr(s.Lon), ptr(s.Alt), ptr(s.Yaw),
		ptr(s.VelocityX), ptr(s.VelocityZ),
	})
}

// ResultMetadata is the format independent summary of a decoded file
type ResultMetadata struct {
	Track       omit.Val[string]
	TrackShort  omit.Val[string]
	TrackConfig omit.Val[string]
	TrackLength omit.Val[string]
	TrackPath   omit.Val[string]
	Car         omit.Val[string]
	CarPath     omit.Val[string]
	DriverName  omit.Val[string]
	SessionType omit.Val[string]
	LapTime     float64 // best known lap time, 0 if unknown
	LapTimes    []LapRecord
	SectorTimes []float64
	TickRate    int
	Records     int
	Duration    float64 // seconds
	FileName    string
	FileSize    int64
	ParsedAt    time.Time
}

func (m ResultMetadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Track       *string     `json:"track,omitempty"`
		TrackShort  *string     `json:"trackShort,omitempty"`
		TrackConfig *string     `json:"trackConfig,omitempty"`
		TrackLength *string     `json:"trackLength,omitempty"`
		TrackPath   *string     `json:"trackPath,omitempty"`
		Car         *string     `json:"car,omitempty"`
		CarPath     *string     `json:"carPath,omitempty"`
		DriverName  *string     `json:"driverName,omitempty"`
		SessionType *string     `json:"sessionType,omitempty"`
		LapTime     float64     `json:"lapTime"`
		LapTimes    []LapRecord `json:"lapTimes"`
		SectorTimes []float64   `json:"sectorTimes"`
		TickRate    int         `json:"tickRate,omitempty"`
		Records     int         `json:"totalRecords,omitempty"`
		Duration    float64     `json:"duration,omitempty"`
		FileName    string      `json:"fileName"`
		FileSize    int64       `json:"fileSize"`
		ParsedAt    time.Time   `json:"parsedAt"`
	}{
		ptr(m.Track), ptr(m.TrackShort), ptr(m.TrackConfig), ptr(m.TrackLength),
		ptr(m.TrackPath), ptr(m.Car), ptr(m.CarPath), ptr(m.DriverName),
		ptr(m.SessionType),
		m.LapTime, nonNil(m.LapTimes), nonNil(m.SectorTimes),
		m.TickRate, m.Records, m.Duration, m.FileName, m.FileSize, m.ParsedAt,
	})
}

// ParseResult is the uniform outcome of decoding any supported file
type ParseResult struct {
	File      TelemetryFile   `json:"file"`
	Metadata  ResultMetadata  `json:"metadata"`
	Session   SessionMetadata `json:"session"`
	Telemetry []Sample        `json:"telemetry,omitempty"`
}

// LapTelemetry is the high resolution series of a single lap
type LapTelemetry struct {
	Lap         int              `json:"lap"`
	LapTime     float64          `json:"lapTime"`
	Samples     []Sample         `json:"samples"`
	SampleCount int              `json:"sampleCount"`
	TrackLength float64          `json:"trackLength"` // m
	TickRate    int              `json:"tickRate"`
	Track       omit.Val[string] `json:"track"`
	Car         omit.Val[string] `json:"car"`
	HasTrackMap bool             `json:"hasTrackMap"`
	SectorTimes []float64        `json:"sectorTimes"`
}

func ptr[T any](v omit.Val[T]) *T {
	if x, ok := v.Get(); ok {
		return &x
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
