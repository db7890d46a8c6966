package solar

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/atlet99/lon-tz/internal/tzsconst"
)

const (
	eps = tzsconst.PrecisionFP

	// dateLineOffsetMinutes is the offset of the half-width zones at 180 degrees
	dateLineOffsetMinutes = tzsconst.MaxLongitudeInt * tzsconst.MinutesPerDegreeLon
)

// Resolve returns the solar time zone containing longitude
func Resolve(longitude float64, scheme Scheme) (Zone, error) {
	return resolve(longitude, nil, scheme)
}

// ResolveWithLatitude returns the solar time zone at a coordinate. Latitudes
// within 10 degrees of either pole resolve to the UTC zone of the scheme.
func ResolveWithLatitude(longitude, latitude float64, scheme Scheme) (Zone, error) {
	return resolve(longitude, &latitude, scheme)
}

// InPolarBand reports whether latitude is close enough to a pole for the
// zone to be forced to UTC. Longitudes converge there.
func InPolarBand(latitude float64) bool {
	return math.Abs(latitude) >= tzsconst.LimitLatitude-eps
}

func resolve(longitude float64, latitude *float64, scheme Scheme) (Zone, error) {
	if !inRange(longitude, tzsconst.MaxLongitudeFP) {
		return Zone{}, fmt.Errorf("longitude %v: %w: must be in the range -180 to +180",
			longitude, ErrOutOfRange)
	}

	zone := Zone{longitude: longitude, scheme: scheme}

	if latitude != nil {
		lat := *latitude
		if !inRange(lat, tzsconst.MaxLatitudeFP) {
			return Zone{}, fmt.Errorf("latitude %v: %w: must be in the range -90 to +90",
				lat, ErrOutOfRange)
		}
		zone.latitude = lat
		zone.hasLatitude = true

		if InPolarBand(lat) {
			zone.shortName = zoneName(scheme, 1, 0)
			zone.offsetMinutes = 0
			return zone, nil
		}
	}

	width := float64(scheme.Width())
	zoneMax := tzsconst.MaxLongitudeInt / scheme.Width()

	switch {
	case longitude >= tzsconst.MaxLongitudeFP-width/2.0-eps || longitude <= -tzsconst.MaxLongitudeFP+eps:
		// positive half-width zone at the date line; -180 folds onto +180
		zone.shortName = zoneName(scheme, 1, zoneMax)
		zone.offsetMinutes = dateLineOffsetMinutes
	case longitude <= -tzsconst.MaxLongitudeFP+width/2.0+eps:
		zone.shortName = zoneName(scheme, -1, zoneMax)
		zone.offsetMinutes = -dateLineOffsetMinutes
	default:
		num := int(math.Abs(longitude)/width + 0.5 + eps)
		sign := -1
		if longitude > -width/2.0+eps {
			sign = 1
		}
		zone.shortName = zoneName(scheme, sign, num)
		zone.offsetMinutes = sign * num * tzsconst.MinutesPerDegreeLon * scheme.Width()
	}

	return zone, nil
}

// ForOffset returns the zone numbered n in a scheme: an hour from -12 to +12
// for HourWidth, a degree from -180 to +180 for DegreeWidth. Unlike Resolve it
// does not fold the negative date line zone onto the positive one, so it can
// produce West12 and Lon180W.
func ForOffset(scheme Scheme, n int) (Zone, error) {
	zoneMax := tzsconst.MaxLongitudeInt / scheme.Width()
	if n < -zoneMax || n > zoneMax {
		return Zone{}, fmt.Errorf("%s zone %d: %w: must be -%d to +%d inclusive",
			scheme, n, ErrOutOfRange, zoneMax, zoneMax)
	}

	sign := 1
	num := n
	if n < 0 {
		sign = -1
		num = -n
	}

	return Zone{
		longitude:     float64(n * scheme.Width()),
		scheme:        scheme,
		shortName:     zoneName(scheme, sign, num),
		offsetMinutes: n * tzsconst.MinutesPerDegreeLon * scheme.Width(),
	}, nil
}

// zoneName builds a zone short name. sign is +1 for zero and east, -1 for west.
func zoneName(scheme Scheme, sign, num int) string {
	var b strings.Builder
	digits := strconv.Itoa(num)

	if scheme == DegreeWidth {
		b.WriteString("Lon")
	} else if sign > 0 {
		b.WriteString("East")
	} else {
		b.WriteString("West")
	}
	for i := len(digits); i < scheme.Digits(); i++ {
		b.WriteByte('0')
	}
	b.WriteString(digits)
	if scheme == DegreeWidth {
		if sign > 0 {
			b.WriteByte('E')
		} else {
			b.WriteByte('W')
		}
	}
	return b.String()
}

func inRange(value, limit float64) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false
	}
	return math.Abs(value) <= limit+eps
}
