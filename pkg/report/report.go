// Package report renders parse and comparison results as terminal tables.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/aarondl/opt/omit"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
)

const unknown = "-"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	slowerStyle = cellStyle.Foreground(lipgloss.Color("#FF4D4F"))
	fasterStyle = cellStyle.Foreground(lipgloss.Color("#52C41A"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
)

// Seconds formats a time value with millisecond precision
func Seconds(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(3)
}

// Delta formats a signed time difference, positive values get a leading +
func Delta(v float64) string {
	d := decimal.NewFromFloat(v).Round(3)
	if d.IsPositive() {
		return "+" + d.StringFixed(3)
	}
	return d.StringFixed(3)
}

// Speed formats a speed value with one decimal place
func Speed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1)
}

// LapTime formats seconds as m:ss.mmm. Zero is shown as unknown.
func LapTime(v float64) string {
	if v <= 0 {
		return unknown
	}
	ms := decimal.NewFromFloat(v).Shift(3).Round(0).IntPart()
	return fmt.Sprintf("%d:%02d.%03d", ms/60000, ms/1000%60, ms%1000)
}

func text(v omit.Val[string]) string {
	if s, ok := v.Get(); ok && s != "" {
		return s
	}
	return unknown
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func properties(rows [][2]string) string {
	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r[0]))
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines,
			labelStyle.Width(width+2).Render(r[0])+r[1])
	}
	return strings.Join(lines, "\n")
}

func writeSection(w io.Writer, title, body string) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n", titleStyle.Render(title), body)
	return err
}
