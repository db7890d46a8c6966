package solar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type zoneQuery struct {
	longitude float64
	latitude  *float64
	scheme    Scheme
	tzname    string
}

func (q zoneQuery) zone(t *testing.T) Zone {
	t.Helper()
	var (
		zone Zone
		err  error
	)
	switch {
	case q.tzname != "":
		zone, err = FromName(q.tzname)
	case q.latitude != nil:
		zone, err = ResolveWithLatitude(q.longitude, *q.latitude, q.scheme)
	default:
		zone, err = Resolve(q.longitude, q.scheme)
	}
	require.NoError(t, err)
	return zone
}

func TestZone_Get(t *testing.T) {
	tests := []struct {
		name   string
		query  zoneQuery
		expect map[string]string
	}{
		{
			name:  "date line hour",
			query: zoneQuery{longitude: 180.0, scheme: HourWidth},
			expect: map[string]string{
				"name": "Solar/East12", "short_name": "East12", "long_name": "Solar/East12",
				"longitude": "180", "latitude": "", "offset": "+12:00", "offset_min": "720",
				"offset_sec": "43200", "is_utc": "0",
			},
		},
		{
			name:  "date line degree at polar latitude",
			query: zoneQuery{longitude: 180.0, latitude: ptr(80), scheme: DegreeWidth},
			expect: map[string]string{
				"name": "Solar/Lon000E", "short_name": "Lon000E", "long_name": "Solar/Lon000E",
				"longitude": "180", "latitude": "80", "offset": "+00:00", "offset_min": "0",
				"offset_sec": "0", "is_utc": "1",
			},
		},
		{
			name:  "near date line degree",
			query: zoneQuery{longitude: 179.99, scheme: DegreeWidth},
			expect: map[string]string{
				"name": "Solar/Lon180E", "short_name": "Lon180E", "longitude": "179.99",
				"latitude": "", "offset": "+12:00", "offset_min": "720", "offset_sec": "43200",
			},
		},
		{
			name:  "portland hour",
			query: zoneQuery{longitude: -122.597, latitude: ptr(45.589), scheme: HourWidth},
			expect: map[string]string{
				"name": "Solar/West08", "short_name": "West08", "longitude": "-122.597",
				"latitude": "45.589", "offset": "-08:00", "offset_min": "-480",
				"offset_sec": "-28800", "is_utc": "0",
			},
		},
		{
			name:  "portland degree",
			query: zoneQuery{longitude: -122.597, latitude: ptr(45.589), scheme: DegreeWidth},
			expect: map[string]string{
				"name": "Solar/Lon123W", "short_name": "Lon123W", "longitude": "-122.597",
				"latitude": "45.589", "offset": "-08:12", "offset_min": "-492",
				"offset_sec": "-29520", "is_utc": "0",
			},
		},
		{
			name:  "portland by name",
			query: zoneQuery{tzname: "Lon123W"},
			expect: map[string]string{
				"name": "Solar/Lon123W", "longitude": "-123", "latitude": "",
				"offset": "-08:12", "offset_min": "-492", "offset_sec": "-29520",
			},
		},
		{
			name:  "near date line west hour",
			query: zoneQuery{longitude: -179.99, scheme: HourWidth},
			expect: map[string]string{
				"name": "Solar/West12", "longitude": "-179.99", "offset": "-12:00",
				"offset_min": "-720", "offset_sec": "-43200",
			},
		},
		{
			name:  "date line west degree folds east",
			query: zoneQuery{longitude: -180, scheme: DegreeWidth},
			expect: map[string]string{
				"name": "Solar/Lon180E", "longitude": "-180", "offset": "+12:00", "offset_min": "720",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zone := tt.query.zone(t)
			for field, want := range tt.expect {
				got, err := zone.Get(field)
				require.NoError(t, err, field)
				assert.Equal(t, want, got, field)
			}
		})
	}
}

func TestZone_GetCaseInsensitive(t *testing.T) {
	zone, err := Resolve(75, HourWidth)
	require.NoError(t, err)

	got, err := zone.Get("SHORT_NAME")
	require.NoError(t, err)
	assert.Equal(t, "East05", got)
}

func TestZone_GetUnknownField(t *testing.T) {
	zone, err := Resolve(0, HourWidth)
	require.NoError(t, err)

	_, err = zone.Get("dst")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestZone_Fields(t *testing.T) {
	zone, err := ResolveWithLatitude(-122.597, 45.589, DegreeWidth)
	require.NoError(t, err)

	fields := zone.Fields()
	require.Len(t, fields, len(FieldNames))
	for i, field := range fields {
		assert.Equal(t, FieldNames[i], field.Name)
	}
	assert.Equal(t, Field{Name: "short_name", Value: "Lon123W"}, fields[3])
}

func TestFormatCoordinate(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{180, "180"},
		{-180, "-180"},
		{179.99, "179.99"},
		{-122.597, "-122.597"},
		{45.0000001, "45"},
		{-0.0000001, "0"},
		{0.5, "0.5"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatCoordinate(tt.in))
	}
}

func TestZone_Location(t *testing.T) {
	zone, err := ResolveWithLatitude(-122.597, 45.589, DegreeWidth)
	require.NoError(t, err)

	loc := zone.Location()
	assert.Equal(t, "Solar/Lon123W", loc.String())

	utc := time.Date(2024, 6, 21, 20, 12, 0, 0, time.UTC)
	local := zone.In(utc)
	assert.Equal(t, 12, local.Hour())
	assert.Equal(t, 0, local.Minute())

	name, offset := local.Zone()
	assert.Equal(t, "Solar/Lon123W", name)
	assert.Equal(t, -29520, offset)
	assert.True(t, utc.Equal(local))
}

func TestZone_TimeAdapter(t *testing.T) {
	zone, err := Resolve(180, HourWidth)
	require.NoError(t, err)

	now := time.Now()
	assert.Equal(t, 12*time.Hour, zone.UTCOffset(now))
	assert.Equal(t, time.Duration(0), zone.DST(now))
	assert.Equal(t, "Solar/East12", zone.TZName(now))
	assert.Equal(t, "Solar/East12", zone.String())
}

func TestParseScheme(t *testing.T) {
	tests := []struct {
		in      string
		want    Scheme
		wantErr bool
	}{
		{"", HourWidth, false},
		{"hour", HourWidth, false},
		{"HOUR", HourWidth, false},
		{"longitude", DegreeWidth, false},
		{"lon", DegreeWidth, false},
		{"Degree", DegreeWidth, false},
		{"minute", HourWidth, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseScheme(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidScheme)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "hour", HourWidth.String())
	assert.Equal(t, "longitude", DegreeWidth.String())
	assert.Equal(t, 15, HourWidth.Width())
	assert.Equal(t, 1, DegreeWidth.Width())
}
