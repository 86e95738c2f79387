package chart

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
)

var (
	driverColor    = color.RGBA{R: 0xE0, G: 0x3C, B: 0x31, A: 255}
	referenceColor = color.RGBA{R: 0x1F, G: 0x77, B: 0xB4, A: 255}
	plotWidth      = 14 * vg.Inch
	plotHeight     = 6 * vg.Inch
)

func newPlot(cr *model.ComparisonResult) (*plot.Plot, error) {
	t, err := collect(cr.Aligned)
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Speed trace (delta %+.3f s)", cr.TimeDelta)
	p.X.Label.Text = "Distance (m)"
	p.Y.Label.Text = "Speed (km/h)"
	p.Add(plotter.NewGrid())

	for _, s := range []struct {
		label  string
		values []float64
		color  color.Color
	}{
		{"driver", t.driver, driverColor},
		{"reference", t.reference, referenceColor},
	} {
		pts := make(plotter.XYs, len(t.distance))
		for i := range t.distance {
			pts[i] = plotter.XY{X: t.distance[i], Y: s.values[i]}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("create %s line: %w", s.label, err)
		}
		line.Width = vg.Points(1)
		line.Color = s.color
		p.Add(line)
		p.Legend.Add(s.label, line)
	}
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// SavePlot draws the speed trace to path, the format follows the extension
func SavePlot(path string, cr *model.ComparisonResult) error {
	p, err := newPlot(cr)
	if err != nil {
		return err
	}
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

// WritePlot draws the speed trace to w. format is one of png, svg, pdf.
func WritePlot(w io.Writer, format string, cr *model.ComparisonResult) error {
	p, err := newPlot(cr)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(plotWidth, plotHeight, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
