// Package config provides configuration management for the lon-tz service.
// It handles loading and validation of environment variables and configuration settings.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/atlet99/lon-tz/internal/solar"
)

// Default configuration values
const (
	DefaultPort              = "8080"
	DefaultLogLevel          = "info"
	DefaultZoneType          = "hour"
	DefaultRateLimit         = 20
	DefaultRateBurst         = 40
	DefaultTZFileCacheTTLSec = 3600
	DefaultServiceName       = "lon-tz"
	DefaultEnvironment       = "development"
	DefaultTracingSampleRate = 1.0
)

const maxPort = 65535

// Config holds all configuration for the application
type Config struct {
	Port            string
	LogLevel        string
	DefaultZoneType solar.Scheme
	RateLimit       int
	RateBurst       int
	TZFileCacheTTL  time.Duration

	MetricsEnabled    bool
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingConsole    bool
	TracingSampleRate float64
	ServiceName       string
	Environment       string

	// TrustedProxies are the peers whose X-Forwarded-For and X-Real-IP
	// headers identify the client for rate limiting
	TrustedProxies []netip.Prefix

	zoneType string
}

// Load reads an optional .env file (or the given files) and then the
// environment. Variables already set in the environment win over the files.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && len(files) > 0 {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	var env envParser
	cfg := &Config{
		Port:              getEnv("PORT", DefaultPort),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", DefaultLogLevel)),
		zoneType:          getEnv("DEFAULT_ZONE_TYPE", DefaultZoneType),
		RateLimit:         env.parseInt("RATE_LIMIT", DefaultRateLimit),
		RateBurst:         env.parseInt("RATE_BURST", DefaultRateBurst),
		TZFileCacheTTL:    time.Duration(env.parseInt("TZFILE_CACHE_TTL_SECONDS", DefaultTZFileCacheTTLSec)) * time.Second,
		MetricsEnabled:    env.parseBool("METRICS_ENABLED", true),
		TracingEnabled:    env.parseBool("TRACING_ENABLED", false),
		OTLPEndpoint:      getEnv("OTLP_ENDPOINT", ""),
		TracingConsole:    env.parseBool("TRACING_CONSOLE", false),
		TracingSampleRate: env.parseFloat("TRACING_SAMPLE_RATE", DefaultTracingSampleRate),
		ServiceName:       getEnv("SERVICE_NAME", DefaultServiceName),
		Environment:       getEnv("ENVIRONMENT", DefaultEnvironment),
		TrustedProxies:    env.parsePrefixes("TRUSTED_PROXIES"),
	}

	if err := env.err(); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks field ranges and resolves the default zone type
func (c *Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}
	if port < 1 || port > maxPort {
		return fmt.Errorf("PORT must be between 1 and %d, got %d", maxPort, port)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel)
	}

	scheme, err := solar.ParseScheme(c.zoneType)
	if err != nil {
		return fmt.Errorf("DEFAULT_ZONE_TYPE: %w", err)
	}
	c.DefaultZoneType = scheme

	if c.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT must be positive, got %d", c.RateLimit)
	}
	if c.RateBurst <= 0 {
		return fmt.Errorf("RATE_BURST must be positive, got %d", c.RateBurst)
	}
	if c.TZFileCacheTTL <= 0 {
		return fmt.Errorf("TZFILE_CACHE_TTL_SECONDS must be positive, got %s", c.TZFileCacheTTL)
	}
	if c.TracingSampleRate < 0 || c.TracingSampleRate > 1 {
		return fmt.Errorf("TRACING_SAMPLE_RATE must be within [0, 1], got %g", c.TracingSampleRate)
	}

	return nil
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// envParser reads typed environment variables and collects every malformed value
type envParser struct {
	errs []error
}

func (p *envParser) fail(key, value, want string, err error) {
	p.errs = append(p.errs, fmt.Errorf("%s must be %s, got %q: %w", key, want, value, err))
}

func (p *envParser) err() error {
	return errors.Join(p.errs...)
}

// parseInt parses an integer environment variable with a fallback for unset values
func (p *envParser) parseInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		p.fail(key, value, "an integer", err)
		return fallback
	}
	return parsed
}

// parseFloat parses a float environment variable with a fallback for unset values
func (p *envParser) parseFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		p.fail(key, value, "a number", err)
		return fallback
	}
	return parsed
}

// parseBool parses a boolean environment variable with a fallback for unset values
func (p *envParser) parseBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		p.fail(key, value, "a boolean", err)
		return fallback
	}
	return parsed
}

// parsePrefixes parses a comma separated list of IP addresses and CIDR ranges.
// A bare address becomes a single-address prefix.
func (p *envParser) parsePrefixes(key string) []netip.Prefix {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	var prefixes []netip.Prefix
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if strings.Contains(item, "/") {
			prefix, err := netip.ParsePrefix(item)
			if err != nil {
				p.fail(key, item, "an IP address or CIDR range", err)
				continue
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			p.fail(key, item, "an IP address or CIDR range", err)
			continue
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes
}
