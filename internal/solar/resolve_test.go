package solar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		longitude  float64
		scheme     Scheme
		shortName  string
		offsetMins int
	}{
		{"date line east hour", 180.0, HourWidth, "East12", 720},
		{"date line west folds east hour", -180.0, HourWidth, "East12", 720},
		{"date line east degree", 180.0, DegreeWidth, "Lon180E", 720},
		{"date line west folds east degree", -180.0, DegreeWidth, "Lon180E", 720},
		{"near date line east hour", 179.99999, HourWidth, "East12", 720},
		{"near date line east degree", 179.99, DegreeWidth, "Lon180E", 720},
		{"near date line west hour", -179.99, HourWidth, "West12", -720},
		{"near date line west degree", -179.99, DegreeWidth, "Lon180W", -720},
		{"half zone boundary east hour", 172.5, HourWidth, "East12", 720},
		{"inside East11", 172.4999, HourWidth, "East11", 660},
		{"half zone boundary west hour", -172.5, HourWidth, "West12", -720},
		{"inside West11", -172.4999, HourWidth, "West11", -660},
		{"portland hour", -122.597, HourWidth, "West08", -480},
		{"portland degree", -122.597, DegreeWidth, "Lon123W", -492},
		{"prime meridian hour", 0.0, HourWidth, "East00", 0},
		{"prime meridian degree", 0.0, DegreeWidth, "Lon000E", 0},
		{"boundary 7.5 goes east", 7.5, HourWidth, "East01", 60},
		{"boundary -7.5 goes west", -7.5, HourWidth, "West01", -60},
		{"just inside East00", 7.49999, HourWidth, "East00", 0},
		{"just inside East00 from west", -7.49999, HourWidth, "East00", 0},
		{"boundary -0.5 goes west", -0.5, DegreeWidth, "Lon001W", -4},
		{"boundary 0.5 goes east", 0.5, DegreeWidth, "Lon001E", 4},
		{"60 degrees", 60.0, HourWidth, "East04", 240},
		{"90 degrees", 90.0, HourWidth, "East06", 360},
		{"89.5 degrees", 89.5, DegreeWidth, "Lon090E", 360},
		{"89.49999 degrees", 89.49999, DegreeWidth, "Lon089E", 356},
		{"120 degrees", 120.0, HourWidth, "East08", 480},
		{"within precision of 180", 180.0000004, HourWidth, "East12", 720},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zone, err := Resolve(tt.longitude, tt.scheme)
			require.NoError(t, err)

			assert.Equal(t, tt.shortName, zone.ShortName())
			assert.Equal(t, "Solar/"+tt.shortName, zone.LongName())
			assert.Equal(t, tt.offsetMins, zone.OffsetMinutes())
			assert.Equal(t, tt.longitude, zone.Longitude())
			assert.Equal(t, tt.scheme, zone.Scheme())

			_, hasLatitude := zone.Latitude()
			assert.False(t, hasLatitude)
		})
	}
}

func TestResolveWithLatitude(t *testing.T) {
	longitudes := []float64{
		180.0, 179.99999, -7.5, -7.49999, 0.0, 7.49999, 7.5,
		-180.0, -179.99999, 60.0, 90.0, 89.5, 89.49999, 120.0,
	}
	latitudes := []float64{80.0, 79.99999, -80.0, -79.99999}

	for _, scheme := range []Scheme{HourWidth, DegreeWidth} {
		for _, lon := range longitudes {
			for _, lat := range latitudes {
				zone, err := ResolveWithLatitude(lon, lat, scheme)
				require.NoError(t, err)

				expectLon := lon
				if math.Abs(lat) >= 80.0 {
					expectLon = 0
				}
				expected, err := Resolve(expectLon, scheme)
				require.NoError(t, err)

				assert.Equal(t, expected.ShortName(), zone.ShortName(), "lon=%v lat=%v %s", lon, lat, scheme)
				assert.Equal(t, expected.OffsetMinutes(), zone.OffsetMinutes(), "lon=%v lat=%v %s", lon, lat, scheme)
				assert.Equal(t, lon, zone.Longitude())

				gotLat, ok := zone.Latitude()
				assert.True(t, ok)
				assert.Equal(t, lat, gotLat)
			}
		}
	}
}

func TestResolveWithLatitude_PolarOverride(t *testing.T) {
	tests := []struct {
		name      string
		longitude float64
		latitude  float64
		scheme    Scheme
		shortName string
	}{
		{"north hour", -122.597, 85, HourWidth, "East00"},
		{"south hour", -122.597, -85, HourWidth, "East00"},
		{"date line degree at 80", 180.0, 80, DegreeWidth, "Lon000E"},
		{"north pole", 45.0, 90, HourWidth, "East00"},
		{"south pole degree", -45.0, -90, DegreeWidth, "Lon000E"},
		{"within precision of 80", 100.0, 79.9999996, HourWidth, "East00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zone, err := ResolveWithLatitude(tt.longitude, tt.latitude, tt.scheme)
			require.NoError(t, err)
			assert.Equal(t, tt.shortName, zone.ShortName())
			assert.Equal(t, 0, zone.OffsetMinutes())
			assert.True(t, zone.IsUTC())
			assert.True(t, InPolarBand(tt.latitude))
		})
	}
}

func TestInPolarBand(t *testing.T) {
	assert.False(t, InPolarBand(0))
	assert.False(t, InPolarBand(45.589))
	assert.False(t, InPolarBand(79.99))
	assert.False(t, InPolarBand(-79.99))
	assert.True(t, InPolarBand(80))
	assert.True(t, InPolarBand(-80))
	assert.True(t, InPolarBand(79.9999996))
}

func TestResolve_Portland(t *testing.T) {
	zone, err := ResolveWithLatitude(-122.597, 45.589, HourWidth)
	require.NoError(t, err)
	assert.Equal(t, "West08", zone.ShortName())
	assert.Equal(t, -480, zone.OffsetMinutes())

	zone, err = ResolveWithLatitude(-122.597, 45.589, DegreeWidth)
	require.NoError(t, err)
	assert.Equal(t, "Lon123W", zone.ShortName())
	assert.Equal(t, -492, zone.OffsetMinutes())
}

func TestResolve_OutOfRange(t *testing.T) {
	tests := []struct {
		name      string
		longitude float64
		latitude  *float64
	}{
		{"longitude above 180", 180.1, nil},
		{"longitude below -180", -180.001, nil},
		{"longitude NaN", math.NaN(), nil},
		{"longitude infinite", math.Inf(1), nil},
		{"latitude above 90", 10, ptr(90.5)},
		{"latitude below -90", 10, ptr(-91)},
		{"latitude NaN", 10, ptr(math.NaN())},
		{"polar latitude does not hide bad longitude", 200, ptr(85)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, scheme := range []Scheme{HourWidth, DegreeWidth} {
				var err error
				if tt.latitude != nil {
					_, err = ResolveWithLatitude(tt.longitude, *tt.latitude, scheme)
				} else {
					_, err = Resolve(tt.longitude, scheme)
				}
				assert.ErrorIs(t, err, ErrOutOfRange)
			}
		})
	}
}

func TestResolve_AntimeridianIdentity(t *testing.T) {
	for _, scheme := range []Scheme{HourWidth, DegreeWidth} {
		east, err := Resolve(180, scheme)
		require.NoError(t, err)
		west, err := Resolve(-180, scheme)
		require.NoError(t, err)

		assert.Equal(t, east.ShortName(), west.ShortName())
		assert.Equal(t, east.OffsetMinutes(), west.OffsetMinutes())
	}
}

func TestResolve_OffsetQuantization(t *testing.T) {
	for _, scheme := range []Scheme{HourWidth, DegreeWidth} {
		quantum := 4 * scheme.Width()
		for i := 0; i <= 3600; i++ {
			lon := float64(i)/10 - 180
			zone, err := Resolve(lon, scheme)
			require.NoError(t, err)
			assert.Zero(t, zone.OffsetMinutes()%quantum, "lon=%v %s", lon, scheme)
			assert.GreaterOrEqual(t, zone.OffsetMinutes(), -720)
			assert.LessOrEqual(t, zone.OffsetMinutes(), 720)
		}
	}
}

func TestResolve_MonotonicOffset(t *testing.T) {
	for _, scheme := range []Scheme{HourWidth, DegreeWidth} {
		previous := math.MinInt
		// start just east of the antimeridian fold
		for i := 1; i <= 3600; i++ {
			lon := float64(i)/10 - 180
			zone, err := Resolve(lon, scheme)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, zone.OffsetMinutes(), previous, "lon=%v %s", lon, scheme)
			previous = zone.OffsetMinutes()
		}
		assert.Equal(t, 720, previous)
	}
}

func TestForOffset(t *testing.T) {
	tests := []struct {
		name       string
		scheme     Scheme
		n          int
		shortName  string
		offsetMins int
		longitude  float64
	}{
		{"West12", HourWidth, -12, "West12", -720, -180},
		{"East12", HourWidth, 12, "East12", 720, 180},
		{"East00", HourWidth, 0, "East00", 0, 0},
		{"West05", HourWidth, -5, "West05", -300, -75},
		{"Lon180W", DegreeWidth, -180, "Lon180W", -720, -180},
		{"Lon000E", DegreeWidth, 0, "Lon000E", 0, 0},
		{"Lon123W", DegreeWidth, -123, "Lon123W", -492, -123},
		{"Lon007E", DegreeWidth, 7, "Lon007E", 28, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zone, err := ForOffset(tt.scheme, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.shortName, zone.ShortName())
			assert.Equal(t, tt.offsetMins, zone.OffsetMinutes())
			assert.Equal(t, tt.longitude, zone.Longitude())
		})
	}

	_, err := ForOffset(HourWidth, 13)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = ForOffset(DegreeWidth, -181)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestResolve_ConcurrentCallers(t *testing.T) {
	done := make(chan Zone)
	for i := 0; i < 16; i++ {
		go func() {
			zone, _ := Resolve(-122.597, DegreeWidth)
			done <- zone
		}()
	}
	for i := 0; i < 16; i++ {
		assert.Equal(t, "Lon123W", (<-done).ShortName())
	}
}

func ptr(v float64) *float64 {
	return &v
}
