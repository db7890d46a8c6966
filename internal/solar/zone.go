// Package solar computes solar time zones from longitude, and optionally latitude.
//
// Solar time zones have no Daylight Saving Time. Hour-based zones are 15 degrees
// wide and centered on meridians at 15 degree intervals, so East05 is UTC+5.
// Longitude-based zones are 1 degree wide and 4 minutes apart, so Lon123W is
// UTC-8:12. East12/West12 and Lon180E/Lon180W are half-width zones either side
// of the 180 degree meridian. Within 10 degrees of either pole every location
// uses the UTC zone of its scheme.
//
// Every function in this package is pure and safe for concurrent use.
package solar

import (
	"fmt"
	"time"
)

// LongNamePrefix is the namespace of solar zone long names
const LongNamePrefix = "Solar/"

// Zone is the identity of a solar time zone. It is computed fresh for every
// query and never modified afterwards.
type Zone struct {
	longitude     float64
	latitude      float64
	hasLatitude   bool
	scheme        Scheme
	shortName     string
	offsetMinutes int
}

// Longitude returns the longitude the zone was resolved from
func (z Zone) Longitude() float64 {
	return z.longitude
}

// Latitude returns the latitude the zone was resolved from, if one was given
func (z Zone) Latitude() (float64, bool) {
	return z.latitude, z.hasLatitude
}

// Scheme returns the zone width scheme
func (z Zone) Scheme() Scheme {
	return z.scheme
}

// ShortName returns the zone name, e.g. East05 or Lon123W
func (z Zone) ShortName() string {
	return z.shortName
}

// LongName returns the namespaced zone name, e.g. Solar/East05
func (z Zone) LongName() string {
	return LongNamePrefix + z.shortName
}

// OffsetMinutes returns the offset from UTC in minutes, -720 to +720
func (z Zone) OffsetMinutes() int {
	return z.offsetMinutes
}

// OffsetSeconds returns the offset from UTC in seconds
func (z Zone) OffsetSeconds() int {
	return z.offsetMinutes * 60
}

// Offset returns the offset from UTC as a duration
func (z Zone) Offset() time.Duration {
	return time.Duration(z.offsetMinutes) * time.Minute
}

// OffsetString formats the offset as ±HH:MM
func (z Zone) OffsetString() string {
	sign := "+"
	minutes := z.offsetMinutes
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("%s%02d:%02d", sign, minutes/60, minutes%60)
}

// IsUTC reports whether the zone has no offset from UTC
func (z Zone) IsUTC() bool {
	return z.offsetMinutes == 0
}

// String returns the long name
func (z Zone) String() string {
	return z.LongName()
}
