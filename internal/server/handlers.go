package server

import (
	"context"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/atlet99/lon-tz/internal/errors"
	"github.com/atlet99/lon-tz/internal/monitoring"
	"github.com/atlet99/lon-tz/internal/solar"
	"github.com/atlet99/lon-tz/internal/timezone"
	"github.com/atlet99/lon-tz/internal/tzfile"
	"github.com/atlet99/lon-tz/internal/version"
)

const tzfileCacheKey = "tzfile"

// handleZone resolves a zone from ?longitude=[&latitude=][&type=] or ?tzname=.
// local_time is the current time in the zone, or the RFC 3339 instant ?at=.
func (s *Server) handleZone(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	longitude, tzname := query.Get("longitude"), query.Get("tzname")

	var (
		zone solar.Zone
		err  error
	)
	switch {
	case longitude != "" && tzname != "":
		err = apperrors.NewError(apperrors.ErrCodeInvalidRequest).
			WithMessage("longitude and tzname are mutually exclusive").
			Build()
	case tzname != "":
		zone, err = s.zoneFromName(r.Context(), tzname)
	case longitude != "":
		zone, err = s.zoneFromCoordinate(r.Context(), longitude, query.Get("latitude"), query.Get("type"))
	default:
		err = solar.ErrMissingInput
	}

	if err != nil {
		s.errors.HandleError(w, r, err)
		return
	}

	localTime, err := timezone.NewClock(zone).WithNow(s.now).LocalTime(query.Get("at"))
	if err != nil {
		s.errors.HandleError(w, r, err)
		return
	}

	s.respond(w, r, newZoneResponse(zone, localTime))
}

func (s *Server) zoneFromCoordinate(ctx context.Context, rawLongitude, rawLatitude, rawScheme string) (solar.Zone, error) {
	scheme := s.config.DefaultZoneType
	if rawScheme != "" {
		parsed, err := solar.ParseScheme(rawScheme)
		if err != nil {
			return solar.Zone{}, err
		}
		scheme = parsed
	}

	longitude, err := parseCoordinate("longitude", rawLongitude)
	if err != nil {
		return solar.Zone{}, err
	}

	_, span := s.tracer.StartSpan(ctx, "zone.resolve",
		attribute.Float64("zone.longitude", longitude),
		attribute.String("zone.scheme", scheme.String()))

	var zone solar.Zone
	if rawLatitude == "" {
		zone, err = solar.Resolve(longitude, scheme)
	} else {
		var latitude float64
		latitude, err = parseCoordinate("latitude", rawLatitude)
		if err == nil {
			span.SetAttributes(attribute.Float64("zone.latitude", latitude))
			zone, err = solar.ResolveWithLatitude(longitude, latitude, scheme)
			if err == nil && solar.InPolarBand(latitude) {
				s.metrics.RecordPolarOverride(scheme.String())
			}
		}
	}

	s.recordResolution(ctx, span, scheme.String(), monitoring.SourceLongitude, zone, err)
	return zone, err
}

func (s *Server) zoneFromName(ctx context.Context, name string) (solar.Zone, error) {
	_, span := s.tracer.StartSpan(ctx, "zone.from_name", attribute.String("zone.name", name))

	zone, err := solar.FromName(name)

	scheme := "unknown"
	if err == nil {
		scheme = zone.Scheme().String()
	}
	s.recordResolution(ctx, span, scheme, monitoring.SourceName, zone, err)
	return zone, err
}

// recordResolution counts the resolution, logs it and ends its span
func (s *Server) recordResolution(ctx context.Context, span trace.Span, scheme, source string, zone solar.Zone, err error) {
	result := monitoring.ResultOK
	if err != nil {
		result = monitoring.ResultError
	} else {
		span.SetAttributes(
			attribute.String("zone.short_name", zone.ShortName()),
			attribute.Int("zone.offset_min", zone.OffsetMinutes()))
		s.logger.Debug("Zone resolved",
			"request_id", RequestIDFromContext(ctx),
			"source", source,
			"short_name", zone.ShortName(),
			"offset_min", zone.OffsetMinutes())
	}
	s.metrics.RecordResolution(scheme, source, result)
	monitoring.EndSpan(span, err)
}

// handleParse returns the meridian and scheme encoded in ?name=
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		s.errors.HandleError(w, r, solar.ErrMissingInput)
		return
	}

	_, span := s.tracer.StartSpan(r.Context(), "zone.parse", attribute.String("zone.name", name))
	meridian, err := solar.Parse(name)
	monitoring.EndSpan(span, err)
	if err != nil {
		s.errors.HandleError(w, r, err)
		return
	}

	s.respond(w, r, MeridianResponse{
		Name:      name,
		Longitude: meridian.Longitude,
		Scheme:    meridian.Scheme.String(),
	})
}

// handleTZFile serves the zone definition table, rendered once per cache TTL
func (s *Server) handleTZFile(w http.ResponseWriter, r *http.Request) {
	body, hit, err := s.cache.GetOrLoad(tzfileCacheKey, s.config.TZFileCacheTTL, func() ([]byte, error) {
		_, span := s.tracer.StartSpan(r.Context(), "tzfile.render")
		table, err := tzfile.String()
		monitoring.EndSpan(span, err)
		return []byte(table), err
	})
	if err != nil {
		s.errors.HandleError(w, r, err)
		return
	}

	if hit {
		s.metrics.RecordCacheHit(tzfileCacheKey)
	} else {
		s.metrics.RecordCacheMiss(tzfileCacheKey)
	}

	w.Header().Set("Content-Type", contentTypeText)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		s.logger.Debug("Failed to write tzfile response", "error", err)
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, HealthResponse{Status: "ok", Version: version.Version})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.errors.HandleError(w, r, apperrors.NewError(apperrors.ErrCodeNotFound).
		WithMessage("no route for "+r.URL.Path).
		Build())
}

// onlyGet rejects every method but GET and HEAD with METHOD_NOT_ALLOWED
func (s *Server) onlyGet(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			s.errors.HandleError(w, r, apperrors.NewError(apperrors.ErrCodeMethodNotAllowed).
				WithMessage(r.Method+" is not supported").
				Build())
			return
		}
		next(w, r)
	}
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, body interface{}) {
	if err := render(w, r, http.StatusOK, body); err != nil {
		s.logger.Error("Failed to write response", "error", err, "path", r.URL.Path)
	}
}

func parseCoordinate(name, raw string) (float64, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.NewError(apperrors.ErrCodeInvalidRequest).
			WithMessage(name + " must be a number").
			WithContext(name, raw).
			WithCause(err).
			Build()
	}
	return value, nil
}
