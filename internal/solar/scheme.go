package solar

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Scheme selects the width of solar time zones
type Scheme int

const (
	// HourWidth zones are 15 degrees wide and named East00..East12 / West00..West12
	HourWidth Scheme = iota
	// DegreeWidth zones are 1 degree wide and named Lon000E..Lon180E / Lon000W..Lon180W
	DegreeWidth
)

const (
	hourZoneWidth   = 15
	degreeZoneWidth = 1
)

// Width returns the zone width in degrees of longitude
func (s Scheme) Width() int {
	if s == DegreeWidth {
		return degreeZoneWidth
	}
	return hourZoneWidth
}

// Digits returns the number of digits in a zone name
func (s Scheme) Digits() int {
	if s == DegreeWidth {
		return 3
	}
	return 2
}

// String returns the name accepted by ParseScheme
func (s Scheme) String() string {
	if s == DegreeWidth {
		return "longitude"
	}
	return "hour"
}

// MarshalText implements encoding.TextMarshaler
func (s Scheme) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseScheme converts a zone type name to a Scheme. An empty name selects
// HourWidth, the default zone type.
func ParseScheme(name string) (Scheme, error) {
	switch cases.Lower(language.Und).String(name) {
	case "", "hour":
		return HourWidth, nil
	case "longitude", "lon", "degree":
		return DegreeWidth, nil
	default:
		return HourWidth, fmt.Errorf("%w %q: use hour or longitude", ErrInvalidScheme, name)
	}
}
