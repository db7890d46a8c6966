// Package timezone provides clocks that read time in a solar time zone.
package timezone

import (
	"errors"
	"fmt"
	"time"

	"github.com/atlet99/lon-tz/internal/solar"
)

// Layouts accepted by Clock.LocalTime
const (
	LayoutRFC3339  = time.RFC3339
	LayoutDateTime = "2006-01-02 15:04:05"
)

// ErrInvalidTime is returned for timestamps in neither accepted layout
var ErrInvalidTime = errors.New("invalid time")

// Clock reads and formats time in a solar zone
type Clock struct {
	location *time.Location
	now      func() time.Time
}

// NewClock creates a clock for zone
func NewClock(zone solar.Zone) *Clock {
	return &Clock{
		location: zone.Location(),
		now:      time.Now,
	}
}

// WithNow returns a copy of the clock reading the current time from now
func (c *Clock) WithNow(now func() time.Time) *Clock {
	clone := *c
	clone.now = now
	return &clone
}

// Now returns the current time in the zone
func (c *Clock) Now() time.Time {
	return c.now().In(c.location)
}

// Format formats t in the zone
func (c *Clock) Format(t time.Time, layout string) string {
	return t.In(c.location).Format(layout)
}

// ParseTime parses a time in layout. Values without an offset are wall
// clock times read in the zone.
func (c *Clock) ParseTime(layout, value string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, c.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %w", ErrInvalidTime, value, err)
	}
	return t, nil
}

// LocalTime formats the instant at as RFC 3339 in the zone. at is RFC 3339,
// a zone wall clock time in LayoutDateTime, or empty for now.
func (c *Clock) LocalTime(at string) (string, error) {
	if at == "" {
		return c.Now().Format(LayoutRFC3339), nil
	}

	instant, err := c.ParseTime(LayoutRFC3339, at)
	if err != nil {
		instant, err = c.ParseTime(LayoutDateTime, at)
	}
	if err != nil {
		return "", fmt.Errorf("%w %q: use RFC 3339 or %q", ErrInvalidTime, at, LayoutDateTime)
	}
	return c.Format(instant, LayoutRFC3339), nil
}
