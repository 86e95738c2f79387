package blap

import (
	"strings"
)

const (
	trackScanLen  = 4096
	minStringLen  = 3
	printableLow  = 0x20
	printableHigh = 0x7e
)

// tokens that never occur in a track path
//
//nolint:gochecknoglobals // lookup table
var excludeTokens = []string{
	"porsche", "bmw", "ferrari", "audi", "mercedes", "mclaren",
	"undefined", "2024", "2025", "cccccc", "000000",
}

// Candidate is a printable string found in the snapshot
type Candidate struct {
	Offset int
	Value  string
}

// Track is the result of a track scan
type Track struct {
	Path string // raw string as found in the file
	Name string // display name
}

// PrintableStrings returns all runs of printable ASCII characters of at least
// minLen bytes within the first limit bytes of buf.
func PrintableStrings(buf []byte, limit, minLen int) []Candidate {
	ret := []Candidate{}
	end := min(len(buf), limit)
	start := -1
	flush := func(pos int) {
		if start >= 0 && pos-start >= minLen {
			ret = append(ret, Candidate{Offset: start, Value: string(buf[start:pos])})
		}
		start = -1
	}
	for i := range end {
		if c := buf[i]; c >= printableLow && c <= printableHigh {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	// a run reaching the scan limit is not terminated and therefore ignored
	return ret
}

func excluded(lower string) bool {
	for _, tok := range excludeTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return allDigits(lower)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// FindTrack scans the head of a snapshot for a known track path
func FindTrack(buf []byte) (Track, bool) {
	for _, c := range PrintableStrings(buf, trackScanLen, minStringLen) {
		lower := strings.ToLower(c.Value)
		if excluded(lower) {
			continue
		}
		if name, ok := TrackName(lower); ok {
			return Track{Path: c.Value, Name: name}, true
		}
	}
	return Track{}, false
}
