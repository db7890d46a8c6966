package solar

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		tzname    string
		longitude float64
		scheme    Scheme
	}{
		{"degree west", "Lon123W", -123, DegreeWidth},
		{"degree east", "Lon045E", 45, DegreeWidth},
		{"degree zero", "Lon000E", 0, DegreeWidth},
		{"degree 180 east", "Lon180E", 180, DegreeWidth},
		{"degree 180 west", "Lon180W", -180, DegreeWidth},
		{"degree lower case", "lon123w", -123, DegreeWidth},
		{"hour west", "West08", -120, HourWidth},
		{"hour east", "East05", 75, HourWidth},
		{"hour 12 east", "East12", 180, HourWidth},
		{"hour 12 west", "West12", -180, HourWidth},
		{"hour zero west", "West00", 0, HourWidth},
		{"hour upper case", "EAST03", 45, HourWidth},
		{"hour mixed case", "wEsT03", -45, HourWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meridian, err := Parse(tt.tzname)
			require.NoError(t, err)
			assert.Equal(t, tt.longitude, meridian.Longitude)
			assert.Equal(t, tt.scheme, meridian.Scheme)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		tzname  string
		wantErr error
	}{
		{"hour above 12", "East13", ErrOutOfRange},
		{"hour 99", "West99", ErrOutOfRange},
		{"degree above 180", "Lon181E", ErrOutOfRange},
		{"degree 999", "Lon999W", ErrOutOfRange},
		{"empty", "", ErrInvalidName},
		{"single hour digit", "East5", ErrInvalidName},
		{"two degree digits", "Lon45E", ErrInvalidName},
		{"missing suffix", "Lon045", ErrInvalidName},
		{"long name", "Solar/East05", ErrInvalidName},
		{"trailing text", "East05x", ErrInvalidName},
		{"unrelated", "America/Los_Angeles", ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.tzname)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_RoundTripHours(t *testing.T) {
	for h := -12; h <= 12; h++ {
		t.Run(fmt.Sprintf("hour %d", h), func(t *testing.T) {
			zone, err := Resolve(float64(h*15), HourWidth)
			require.NoError(t, err)

			meridian, err := Parse(zone.ShortName())
			require.NoError(t, err)
			assert.Equal(t, HourWidth, meridian.Scheme)

			if h == -12 {
				// -180 resolves to the East12 side of the date line
				assert.Equal(t, 180.0, meridian.Longitude)
				return
			}
			assert.Equal(t, float64(h*15), meridian.Longitude)
		})
	}
}

func TestParse_RoundTripDegrees(t *testing.T) {
	for d := -180; d <= 180; d++ {
		zone, err := Resolve(float64(d), DegreeWidth)
		require.NoError(t, err)

		meridian, err := Parse(zone.ShortName())
		require.NoError(t, err)
		assert.Equal(t, DegreeWidth, meridian.Scheme)

		if d == -180 {
			assert.Equal(t, 180.0, meridian.Longitude)
			continue
		}
		assert.Equal(t, float64(d), meridian.Longitude, "degree %d", d)
		assert.Equal(t, d*4, zone.OffsetMinutes(), "degree %d", d)
	}
}

func TestParse_RoundTripForOffset(t *testing.T) {
	for _, scheme := range []Scheme{HourWidth, DegreeWidth} {
		zoneMax := 180 / scheme.Width()
		for n := -zoneMax; n <= zoneMax; n++ {
			zone, err := ForOffset(scheme, n)
			require.NoError(t, err)

			meridian, err := Parse(zone.ShortName())
			require.NoError(t, err)
			assert.Equal(t, zone.Longitude(), meridian.Longitude)
			assert.Equal(t, scheme, meridian.Scheme)
		}
	}
}

func TestFromName(t *testing.T) {
	tests := []struct {
		tzname     string
		shortName  string
		longitude  string
		offset     string
		offsetMins int
	}{
		{"East12", "East12", "180", "+12:00", 720},
		{"Lon180E", "Lon180E", "180", "+12:00", 720},
		{"West08", "West08", "-120", "-08:00", -480},
		{"Lon123W", "Lon123W", "-123", "-08:12", -492},
		{"west12", "East12", "-180", "+12:00", 720},
		{"lon007e", "Lon007E", "7", "+00:28", 28},
	}

	for _, tt := range tests {
		t.Run(tt.tzname, func(t *testing.T) {
			zone, err := FromName(tt.tzname)
			require.NoError(t, err)
			assert.Equal(t, tt.shortName, zone.ShortName())
			assert.Equal(t, tt.offsetMins, zone.OffsetMinutes())
			assert.Equal(t, tt.offset, zone.OffsetString())

			lon, err := zone.Get("longitude")
			require.NoError(t, err)
			assert.Equal(t, tt.longitude, lon)

			lat, err := zone.Get("latitude")
			require.NoError(t, err)
			assert.Empty(t, lat)
		})
	}

	_, err := FromName("East13")
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = FromName("Nowhere")
	assert.ErrorIs(t, err, ErrInvalidName)
}
