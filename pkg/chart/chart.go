// Package chart renders the speed traces of a lap comparison.
package chart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
)

var ErrNoData = errors.New("no aligned telemetry to plot")

type trace struct {
	distance  []float64
	driver    []float64
	reference []float64
	delta     []float64
}

// collect returns the aligned bins where both sides carry a speed value
func collect(aligned []model.AlignedSample) (trace, error) {
	var t trace
	for _, a := range aligned {
		d, dok := a.Driver.Speed.Get()
		r, rok := a.Reference.Speed.Get()
		if !dok || !rok {
			continue
		}
		t.distance = append(t.distance, a.Distance)
		t.driver = append(t.driver, d)
		t.reference = append(t.reference, r)
		t.delta = append(t.delta, d-r)
	}
	if len(t.distance) < 2 {
		return t, ErrNoData
	}
	return t, nil
}

// WriteFile renders the speed trace of cr. The extension selects the output:
// .png and .svg are drawn with gonum/plot, .html produces an interactive chart.
func WriteFile(path string, cr *model.ComparisonResult) (err error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".svg":
		return SavePlot(path, cr)
	case ".html", ".htm":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		return RenderHTML(f, cr)
	default:
		return fmt.Errorf("unsupported chart type %q", ext)
	}
}
