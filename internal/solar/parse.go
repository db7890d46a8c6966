package solar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/atlet99/lon-tz/internal/tzsconst"
)

var (
	lonNameRE  = regexp.MustCompile(`(?i)^Lon(\d{3})([EW])$`)
	hourNameRE = regexp.MustCompile(`(?i)^(East|West)(\d{2})$`)
)

// Meridian is the defining longitude and scheme of a named zone
type Meridian struct {
	Longitude float64
	Scheme    Scheme
}

// Parse converts a zone short name back to the meridian it is centered on.
// Names are matched case-insensitively. Latitude is not recoverable from a name.
func Parse(name string) (Meridian, error) {
	if m := lonNameRE.FindStringSubmatch(name); m != nil {
		degrees, err := strconv.Atoi(m[1])
		if err != nil {
			return Meridian{}, fmt.Errorf("%q: %w", name, ErrInvalidName)
		}
		if strings.EqualFold(m[2], "W") {
			degrees = -degrees
		}
		if degrees < -tzsconst.MaxLongitudeInt || degrees > tzsconst.MaxLongitudeInt {
			return Meridian{}, fmt.Errorf("%q: longitude %d: %w: out of bounds ±%d",
				name, degrees, ErrOutOfRange, tzsconst.MaxLongitudeInt)
		}
		return Meridian{Longitude: float64(degrees), Scheme: DegreeWidth}, nil
	}

	if m := hourNameRE.FindStringSubmatch(name); m != nil {
		hours, err := strconv.Atoi(m[2])
		if err != nil {
			return Meridian{}, fmt.Errorf("%q: %w", name, ErrInvalidName)
		}
		hourMax := tzsconst.MaxLongitudeInt / hourZoneWidth
		if hours > hourMax {
			return Meridian{}, fmt.Errorf("%q: hour %d: %w: out of bounds ±%d",
				name, hours, ErrOutOfRange, hourMax)
		}
		longitude := hours * hourZoneWidth
		if strings.EqualFold(m[1], "West") {
			longitude = -longitude
		}
		return Meridian{Longitude: float64(longitude), Scheme: HourWidth}, nil
	}

	return Meridian{}, fmt.Errorf("%q: %w", name, ErrInvalidName)
}

// FromName returns the zone identified by a short name. The zone's longitude
// is the meridian the name is centered on; West12 and Lon180W resolve to
// their positive date line twins like any other longitude of ±180.
func FromName(name string) (Zone, error) {
	meridian, err := Parse(name)
	if err != nil {
		return Zone{}, err
	}
	return Resolve(meridian.Longitude, meridian.Scheme)
}
