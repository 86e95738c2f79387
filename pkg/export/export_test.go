package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aarondl/opt/omit"
	"gotest.tools/v3/assert"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
)

func sampleResult(n int) *model.ParseResult {
	samples := make([]model.Sample, n)
	for i := range samples {
		samples[i] = model.Sample{Time: float64(i), Speed: omit.From(100.0)}
	}
	return &model.ParseResult{
		File: model.TelemetryFile{Format: model.FormatIBT, TickRate: 60},
		Metadata: model.ResultMetadata{
			Track:    omit.From("Circuit de Spa-Francorchamps"),
			LapTime:  94.799,
			LapTimes: []model.LapRecord{{Lap: 1, Time: 94.799}},
			FileName: "spa.ibt",
		},
		Telemetry: samples,
	}
}

func TestDownsample(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		every int
		want  []float64
	}{
		{name: "every 10th", n: 25, every: 10, want: []float64{0, 10, 20}},
		{name: "keep all", n: 3, every: 1, want: []float64{0, 1, 2}},
		{name: "zero", n: 2, every: 0, want: []float64{0, 1}},
		{name: "empty", n: 0, every: 10, want: []float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := sampleResult(tt.n)
			got := Downsample(src, tt.every)
			times := make([]float64, 0, len(got.Telemetry))
			for _, s := range got.Telemetry {
				times = append(times, s.Time)
			}
			assert.DeepEqual(t, times, tt.want)
			assert.Equal(t, len(src.Telemetry), tt.n)
		})
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, Write(&buf, sampleResult(0).Metadata, FormatYAML))
	out := buf.String()
	assert.Assert(t, strings.HasPrefix(out, "track: Circuit de Spa-Francorchamps\n"), out)
	assert.Assert(t, strings.Contains(out, "lapTime: 94.799\n"), out)
	assert.Assert(t, strings.Contains(out, "fileName: spa.ibt\n"), out)
	assert.Assert(t, !strings.Contains(out, "{"), out)
}

func TestNeedsQuotes(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "Spa", want: false},
		{in: "", want: true},
		{in: "true", want: true},
		{in: "94.8", want: true},
		{in: "a: b", want: true},
		{in: "Race", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, needsQuotes(tt.in), tt.want)
		})
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.json", "out.json.zst", "out.yaml", "out.yml.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			assert.NilError(t, WriteFile(path, sampleResult(3)))

			var got map[string]any
			assert.NilError(t, ReadFile(path, &got))
			md, ok := got["metadata"].(map[string]any)
			assert.Assert(t, ok)
			assert.Equal(t, md["track"], "Circuit de Spa-Francorchamps")
			assert.Equal(t, len(got["telemetry"].([]any)), 3)
		})
	}
}

func TestWriteFileCompresses(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "out.json")
	packed := filepath.Join(dir, "out.json.zst")
	assert.NilError(t, WriteFile(plain, sampleResult(500)))
	assert.NilError(t, WriteFile(packed, sampleResult(500)))

	p, err := os.Stat(plain)
	assert.NilError(t, err)
	z, err := os.Stat(packed)
	assert.NilError(t, err)
	assert.Assert(t, z.Size() < p.Size())
}

func TestFormats(t *testing.T) {
	assert.Equal(t, FormatOf("a/b.YML"), FormatYAML)
	assert.Equal(t, FormatOf("b.yaml.zst"), FormatYAML)
	assert.Equal(t, FormatOf("b.out"), FormatJSON)

	f, err := ParseFormat("yml")
	assert.NilError(t, err)
	assert.Equal(t, f, FormatYAML)
	_, err = ParseFormat("xml")
	assert.ErrorContains(t, err, "unknown export format")
}
