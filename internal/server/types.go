package server

import (
	"github.com/atlet99/lon-tz/internal/solar"
)

// ZoneResponse is the document returned for a resolved zone
type ZoneResponse struct {
	Longitude     float64  `json:"longitude" yaml:"longitude" cbor:"longitude"`
	Latitude      *float64 `json:"latitude,omitempty" yaml:"latitude,omitempty" cbor:"latitude,omitempty"`
	Scheme        string   `json:"scheme" yaml:"scheme" cbor:"scheme"`
	Name          string   `json:"name" yaml:"name" cbor:"name"`
	ShortName     string   `json:"short_name" yaml:"short_name" cbor:"short_name"`
	LongName      string   `json:"long_name" yaml:"long_name" cbor:"long_name"`
	Offset        string   `json:"offset" yaml:"offset" cbor:"offset"`
	OffsetMinutes int      `json:"offset_min" yaml:"offset_min" cbor:"offset_min"`
	OffsetSeconds int      `json:"offset_sec" yaml:"offset_sec" cbor:"offset_sec"`
	IsUTC         bool     `json:"is_utc" yaml:"is_utc" cbor:"is_utc"`
	LocalTime     string   `json:"local_time" yaml:"local_time" cbor:"local_time"`
}

// MeridianResponse is the document returned for a parsed zone name
type MeridianResponse struct {
	Name      string  `json:"name" yaml:"name" cbor:"name"`
	Longitude float64 `json:"longitude" yaml:"longitude" cbor:"longitude"`
	Scheme    string  `json:"scheme" yaml:"scheme" cbor:"scheme"`
}

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status  string `json:"status" yaml:"status" cbor:"status"`
	Version string `json:"version" yaml:"version" cbor:"version"`
}

func newZoneResponse(zone solar.Zone, localTime string) ZoneResponse {
	resp := ZoneResponse{
		Longitude:     zone.Longitude(),
		Scheme:        zone.Scheme().String(),
		Name:          zone.LongName(),
		ShortName:     zone.ShortName(),
		LongName:      zone.LongName(),
		Offset:        zone.OffsetString(),
		OffsetMinutes: zone.OffsetMinutes(),
		OffsetSeconds: zone.OffsetSeconds(),
		IsUTC:         zone.IsUTC(),
		LocalTime:     localTime,
	}
	if latitude, ok := zone.Latitude(); ok {
		resp.Latitude = &latitude
	}
	return resp
}
