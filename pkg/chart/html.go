package chart

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
)

func lineData(values []float64) []opts.LineData {
	ret := make([]opts.LineData, len(values))
	for i, v := range values {
		ret[i] = opts.LineData{Value: v}
	}
	return ret
}

// RenderHTML writes an interactive speed trace page
func RenderHTML(w io.Writer, cr *model.ComparisonResult) error {
	t, err := collect(cr.Aligned)
	if err != nil {
		return err
	}
	x := make([]string, len(t.distance))
	for i, d := range t.distance {
		x[i] = strconv.FormatFloat(d, 'f', 0, 64)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Lap comparison",
			Width:     "100%",
			Height:    "720px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Speed trace",
			Subtitle: fmt.Sprintf("delta %+.3f s", cr.TimeDelta),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Distance (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "km/h"}),
	)
	seriesOpts := charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)})
	line.SetXAxis(x).
		AddSeries("driver", lineData(t.driver), seriesOpts).
		AddSeries("reference", lineData(t.reference), seriesOpts).
		AddSeries("delta", lineData(t.delta), seriesOpts)
	return line.Render(w)
}
