package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
)

// Comparison writes all sections of a comparison result
func Comparison(w io.Writer, cr *model.ComparisonResult) error {
	summary := properties([][2]string{
		{"Driver", lapLabel(cr.DriverLap)},
		{"Reference", lapLabel(cr.ReferenceLap)},
		{"Delta", Delta(cr.TimeDelta) + " s"},
	})
	if err := writeSection(w, "Comparison", summary); err != nil {
		return err
	}
	sections := []struct {
		title  string
		render func(*model.ComparisonResult) string
		skip   bool
	}{
		{"Sectors", sectorTable, len(cr.Sectors) == 0},
		{"Corners", cornerTable, len(cr.Corners) == 0},
		{"Inputs", inputSummary, false},
		{"Top issues", issueTable, len(cr.TopIssues) == 0},
	}
	for _, s := range sections {
		if s.skip {
			continue
		}
		if err := writeSection(w, s.title, s.render(cr)); err != nil {
			return err
		}
	}
	return nil
}

func lapLabel(md model.ResultMetadata) string {
	return fmt.Sprintf("%s (%s, %s)", LapTime(md.LapTime), text(md.Car), md.FileName)
}

// deltaStyle colors the delta column of time based tables
func deltaStyle(deltaCol int, deltas []float64) table.StyleFunc {
	return func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case col != deltaCol || row < 0 || row >= len(deltas):
			return cellStyle
		case deltas[row] > 0:
			return slowerStyle
		default:
			return fasterStyle
		}
	}
}

func sectorTable(cr *model.ComparisonResult) string {
	t := newTable("Sector", "Driver", "Reference", "Delta", "%")
	deltas := make([]float64, 0, len(cr.Sectors))
	for _, s := range cr.Sectors {
		t.Row(strconv.Itoa(s.Sector), Seconds(s.DriverTime), Seconds(s.ReferenceTime),
			Delta(s.Delta), Speed(s.Percentage))
		deltas = append(deltas, s.Delta)
	}
	return t.StyleFunc(deltaStyle(3, deltas)).String()
}

func cornerTable(cr *model.ComparisonResult) string {
	t := newTable("Corner", "At", "Entry", "Apex", "Exit", "Loss", "Diagnosis")
	deltas := make([]float64, 0, len(cr.Corners))
	for _, c := range cr.Corners {
		t.Row(strconv.Itoa(c.Corner), Speed(c.Distance),
			Speed(c.Entry.Delta), Speed(c.Apex.Delta), Speed(c.Exit.Delta),
			Delta(c.EstimatedTimeLoss), string(c.Diagnosis))
		deltas = append(deltas, c.EstimatedTimeLoss)
	}
	return t.StyleFunc(deltaStyle(5, deltas)).String()
}

func inputSummary(cr *model.ComparisonResult) string {
	in := cr.Inputs
	return properties([][2]string{
		{"Braking", in.Braking.Summary},
		{"Throttle", fmt.Sprintf("%s%% %s", Speed(in.Throttle.Score), in.Throttle.Summary)},
		{"Steering", fmt.Sprintf("%s%% %s", Speed(in.Steering.Score), in.Steering.Summary)},
	})
}

func issueTable(cr *model.ComparisonResult) string {
	t := newTable("Priority", "Type", "Loss", "Description")
	for _, i := range cr.TopIssues {
		t.Row(string(i.Priority), string(i.Type), Delta(i.TimeLoss), i.Description)
	}
	return t.String()
}
