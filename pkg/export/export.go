// Package export writes parse and comparison results as JSON or YAML files.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DefaultEvery keeps every 10th sample
const DefaultEvery = 10

const zstdExt = ".zst"

// ParseFormat converts a format name
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// FormatOf derives the format from the file name. A trailing .zst is ignored,
// unknown extensions yield json.
func FormatOf(path string) Format {
	name := strings.TrimSuffix(strings.ToLower(path), zstdExt)
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Downsample returns a copy of pr keeping every n-th telemetry sample.
// n <= 1 keeps all samples.
func Downsample(pr *model.ParseResult, every int) *model.ParseResult {
	ret := *pr
	if every <= 1 {
		return &ret
	}
	ret.Telemetry = lo.Filter(pr.Telemetry, func(_ model.Sample, i int) bool {
		return i%every == 0
	})
	return &ret
}

// Write encodes data to w
func Write(w io.Writer, data any, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		return writeYAML(w, data)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// WriteFile writes data to path. The format is derived from the file name,
// a .zst suffix compresses the output with zstd.
func WriteFile(path string, data any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if !strings.HasSuffix(strings.ToLower(path), zstdExt) {
		return Write(f, data, FormatOf(path))
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	if err := Write(enc, data, FormatOf(path)); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// ReadFile decodes a file written by WriteFile into v
func ReadFile(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if strings.HasSuffix(strings.ToLower(path), zstdExt) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return err
		}
		defer dec.Close()
		if raw, err = dec.DecodeAll(raw, nil); err != nil {
			return err
		}
	}
	if FormatOf(path) == FormatYAML {
		return yaml.Unmarshal(raw, v)
	}
	return json.Unmarshal(raw, v)
}

// writeYAML goes through JSON so that the custom JSON marshalers define the
// field names. Decoding into a node keeps the field order.
func writeYAML(w io.Writer, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(raw)).Decode(&doc); err != nil {
		return err
	}
	blockStyle(&doc)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

// blockStyle drops the flow and quoting styles taken over from JSON
func blockStyle(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" && needsQuotes(n.Value) {
		n.Style = yaml.DoubleQuotedStyle
	} else {
		n.Style = 0
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// needsQuotes reports strings that would not read back as strings when unquoted
func needsQuotes(s string) bool {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return true
	}
	_, isString := v.(string)
	return !isString || v != s
}
