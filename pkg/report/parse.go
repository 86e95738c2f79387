package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
)

// ParseResult writes the metadata and the lap list of a decoded file
func ParseResult(w io.Writer, pr *model.ParseResult) error {
	md := pr.Metadata
	rows := [][2]string{
		{"File", md.FileName},
		{"Format", string(pr.File.Format)},
		{"Track", text(md.Track)},
		{"Config", text(md.TrackConfig)},
		{"Length", text(md.TrackLength)},
		{"Car", text(md.Car)},
		{"Driver", text(md.DriverName)},
		{"Session", text(md.SessionType)},
		{"Best lap", LapTime(md.LapTime)},
	}
	if pr.File.Format == model.FormatIBT {
		rows = append(rows,
			[2]string{"Tick rate", fmt.Sprintf("%d Hz", md.TickRate)},
			[2]string{"Records", strconv.Itoa(md.Records)},
			[2]string{"Duration", Seconds(md.Duration) + " s"},
		)
	}
	if err := writeSection(w, "Session", properties(rows)); err != nil {
		return err
	}
	if len(md.LapTimes) == 0 {
		return nil
	}
	t := newTable("Lap", "Time", "Gap")
	for _, l := range md.LapTimes {
		t.Row(strconv.Itoa(l.Lap), LapTime(l.Time), Delta(l.Time-md.LapTime))
	}
	return writeSection(w, "Laps", t.String())
}

// LapTelemetry writes the summary of a single lap
func LapTelemetry(w io.Writer, lt *model.LapTelemetry) error {
	rows := [][2]string{
		{"Lap", strconv.Itoa(lt.Lap)},
		{"Time", LapTime(lt.LapTime)},
		{"Track", text(lt.Track)},
		{"Car", text(lt.Car)},
		{"Track length", Speed(lt.TrackLength) + " m"},
		{"Samples", strconv.Itoa(lt.SampleCount)},
		{"Track map", strconv.FormatBool(lt.HasTrackMap)},
	}
	if err := writeSection(w, "Lap", properties(rows)); err != nil {
		return err
	}
	if len(lt.SectorTimes) == 0 {
		return nil
	}
	t := newTable("Sector", "Time")
	for i, s := range lt.SectorTimes {
		t.Row(strconv.Itoa(i+1), Seconds(s))
	}
	return writeSection(w, "Sectors", t.String())
}

// Sessions writes a list of imported sessions
func Sessions(w io.Writer, sessions []*model.StoredSession) error {
	t := newTable("ID", "File", "Track", "Car", "Best lap", "Imported")
	for _, s := range sessions {
		t.Row(s.ID.String()[:8], s.FileName, orUnknown(s.Track), orUnknown(s.Car),
			LapTime(s.BestLapTime), s.ImportedAt.Local().Format("2006-01-02 15:04"))
	}
	return writeSection(w, "Sessions", t.String())
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}
