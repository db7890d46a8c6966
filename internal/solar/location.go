package solar

import "time"

// Location returns a fixed time.Location for the zone, named by its long name
func (z Zone) Location() *time.Location {
	return time.FixedZone(z.LongName(), z.OffsetSeconds())
}

// In returns t in the zone
func (z Zone) In(t time.Time) time.Time {
	return t.In(z.Location())
}

// UTCOffset returns the offset from UTC. Solar zones have a single offset, so t is unused.
func (z Zone) UTCOffset(_ time.Time) time.Duration {
	return z.Offset()
}

// DST returns the Daylight Saving Time adjustment, which is always zero
func (z Zone) DST(_ time.Time) time.Duration {
	return 0
}

// TZName returns the long name of the zone
func (z Zone) TZName(_ time.Time) string {
	return z.LongName()
}
