package ibt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/aarondl/opt/omit"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
)

var (
	keyPatterns   = map[string]*regexp.Regexp{}
	keyPatternsMu sync.Mutex
	leadingNumber = regexp.MustCompile(`^[-+]?\d*\.?\d+`)
)

func keyPattern(key string) *regexp.Regexp {
	keyPatternsMu.Lock()
	defer keyPatternsMu.Unlock()
	if re, ok := keyPatterns[key]; ok {
		return re
	}
	re := regexp.MustCompile(`(?m)^\s*` + regexp.QuoteMeta(key) + `:\s*(.+)$`)
	keyPatterns[key] = re
	return re
}

// SessionInfoValue returns the trimmed value of the first line "key: value" in text
func SessionInfoValue(text, key string) (string, bool) {
	m := keyPattern(key).FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	if v == "" {
		return "", false
	}
	return v, true
}

// driverCarValue looks up key inside the driver entry of carIdx.
// The first occurrence of key after the line "CarIdx: <carIdx>" is used.
func driverCarValue(text string, carIdx int, key string) (string, bool) {
	re, err := regexp.Compile(fmt.Sprintf(`(?m)^[\s-]*CarIdx:\s*%d\b[\s\S]*?^\s*%s:\s*(.+)$`,
		carIdx, regexp.QuoteMeta(key)))
	if err != nil {
		return "", false
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	return v, v != ""
}

// SessionInfoText returns the session info block as text.
// The range is clamped to the buffer.
func SessionInfoText(buf []byte, h Header) string {
	start := int(h.SessionInfoOffset)
	if start >= len(buf) || h.SessionInfoLen <= 0 {
		return ""
	}
	end := min(start+int(h.SessionInfoLen), len(buf))
	return strings.TrimRight(string(buf[start:end]), "\x00")
}

// ParseTrackLength converts values like "7.00 km" into kilometers
func ParseTrackLength(s string) (float64, bool) {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ExtractSessionMetadata reads the known keys from the session info text
func ExtractSessionMetadata(text string) model.SessionMetadata {
	ret := model.SessionMetadata{}
	set := func(dst *omit.Val[string], key string) {
		if v, ok := SessionInfoValue(text, key); ok {
			*dst = omit.From(v)
		}
	}
	set(&ret.TrackName, "TrackName")
	set(&ret.TrackDisplayName, "TrackDisplayName")
	set(&ret.TrackShortName, "TrackDisplayShortName")
	set(&ret.TrackConfig, "TrackConfigName")
	set(&ret.TrackLength, "TrackLength")
	set(&ret.SessionType, "SessionType")

	if v, ok := ret.TrackLength.Get(); ok {
		if km, ok := ParseTrackLength(v); ok {
			ret.TrackLengthKm = omit.From(km)
		}
	}

	carIdx := 0
	if v, ok := SessionInfoValue(text, "DriverCarIdx"); ok {
		if idx, err := strconv.Atoi(v); err == nil {
			carIdx = idx
			ret.DriverCarIdx = omit.From(idx)
		}
	}
	if v, ok := driverCarValue(text, carIdx, "CarScreenName"); ok {
		ret.CarName = omit.From(v)
	} else {
		set(&ret.CarName, "CarScreenName")
	}
	if v, ok := driverCarValue(text, carIdx, "CarPath"); ok {
		ret.CarPath = omit.From(v)
	}
	return ret
}
