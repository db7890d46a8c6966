// Package tzsconst holds the constants that parameterize solar time zone resolution.
// Tests and diagnostics can read them by name through Lookup.
package tzsconst

import (
	"regexp"
	"sort"
	"strings"
)

// Precision
const (
	// PrecisionDigits is the number of decimal digits treated as significant
	PrecisionDigits = 6
	// PrecisionFP is half the width of floating point equality (10^-6 / 2)
	PrecisionFP = 1e-6 / 2.0
)

// Location bounds
const (
	MaxDegrees      = 360
	PolarUTCArea    = 10
	MaxLongitudeInt = MaxDegrees / 2
	MaxLongitudeFP  = MaxDegrees / 2.0
	MaxLatitudeFP   = MaxDegrees / 4.0
	// LimitLatitude is the latitude beyond which zones fall back to UTC
	LimitLatitude       = MaxLatitudeFP - PolarUTCArea
	MinutesPerDegreeLon = 4
)

// Zone name grammars
const (
	LonZonePattern  = "(Lon0[0-9][0-9][EW])|(Lon1[0-7][0-9][EW])|(Lon180[EW])"
	HourZonePattern = "(East|West)(0[0-9]|1[0-2])"
	ZonePattern     = LonZonePattern + "|" + HourZonePattern
)

// Compiled grammars
var (
	LonZoneRE  = regexp.MustCompile(LonZonePattern)
	HourZoneRE = regexp.MustCompile(HourZonePattern)
	ZoneRE     = regexp.MustCompile(ZonePattern)
)

var values = map[string]any{
	"PRECISION_DIGITS":       PrecisionDigits,
	"PRECISION_FP":           PrecisionFP,
	"MAX_DEGREES":            MaxDegrees,
	"POLAR_UTC_AREA":         PolarUTCArea,
	"MAX_LONGITUDE_INT":      MaxLongitudeInt,
	"MAX_LONGITUDE_FP":       MaxLongitudeFP,
	"MAX_LATITUDE_FP":        MaxLatitudeFP,
	"LIMIT_LATITUDE":         LimitLatitude,
	"MINUTES_PER_DEGREE_LON": MinutesPerDegreeLon,
	"TZSOLAR_LON_ZONE_STR":   LonZonePattern,
	"TZSOLAR_HOUR_ZONE_STR":  HourZonePattern,
	"TZSOLAR_ZONE_STR":       ZonePattern,
	"TZSOLAR_LON_ZONE_RE":    LonZoneRE,
	"TZSOLAR_HOUR_ZONE_RE":   HourZoneRE,
	"TZSOLAR_ZONE_RE":        ZoneRE,
}

// Lookup returns the value of a constant by name. Names are matched
// case-insensitively; the second result is false for unknown names.
func Lookup(name string) (any, bool) {
	if name == "" {
		return nil, false
	}
	value, ok := values[strings.ToUpper(name)]
	return value, ok
}

// Keys returns the sorted names accepted by Lookup
func Keys() []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
