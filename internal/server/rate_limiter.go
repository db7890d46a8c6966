package server

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/atlet99/lon-tz/internal/errors"
	"github.com/atlet99/lon-tz/internal/monitoring"
)

const (
	// limiters idle this long are dropped once the table reaches maxLimiters
	limiterIdleTimeout = 10 * time.Minute
	maxLimiters        = 10000
)

// HTTPRateLimiter limits requests per client IP with a token bucket each
type HTTPRateLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*clientLimiter
	maxLimiters int
	config      RateLimiterConfig
	now         func() time.Time
}

// RateLimiterConfig holds configuration for rate limiting
type RateLimiterConfig struct {
	Rate        float64 // requests per second
	Burst       int     // burst limit
	PerEndpoint bool    // whether each route gets its own bucket

	// TrustedProxies may set X-Forwarded-For and X-Real-IP. Those headers
	// are ignored on requests from any other peer.
	TrustedProxies []netip.Prefix
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewHTTPRateLimiter creates a new HTTP rate limiter
func NewHTTPRateLimiter(config RateLimiterConfig) *HTTPRateLimiter {
	return &HTTPRateLimiter{
		limiters:    make(map[string]*clientLimiter),
		maxLimiters: maxLimiters,
		config:      config,
		now:         time.Now,
	}
}

// Allow reports whether the request fits in its client's bucket
func (rl *HTTPRateLimiter) Allow(r *http.Request) bool {
	return rl.limiterFor(rl.limiterKey(r)).Allow()
}

// RetryAfter is how long a rejected client should wait for its next token
func (rl *HTTPRateLimiter) RetryAfter() time.Duration {
	if rl.config.Rate <= 0 {
		return time.Second
	}
	return time.Duration(float64(time.Second) / rl.config.Rate)
}

func (rl *HTTPRateLimiter) limiterKey(r *http.Request) string {
	key := getClientIP(r, rl.config.TrustedProxies)
	if rl.config.PerEndpoint {
		key = monitoring.PatternRoute(r) + ":" + key
	}
	return key
}

func (rl *HTTPRateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if entry, exists := rl.limiters[key]; exists {
		entry.lastSeen = now
		return entry.limiter
	}

	if len(rl.limiters) >= rl.maxLimiters {
		rl.evictIdle(now)
		for len(rl.limiters) >= rl.maxLimiters {
			rl.evictOldest()
		}
	}

	entry := &clientLimiter{
		limiter:  rate.NewLimiter(rate.Limit(rl.config.Rate), rl.config.Burst),
		lastSeen: now,
	}
	rl.limiters[key] = entry
	return entry.limiter
}

// evictIdle drops limiters not used within limiterIdleTimeout. Caller holds mu.
func (rl *HTTPRateLimiter) evictIdle(now time.Time) {
	for key, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > limiterIdleTimeout {
			delete(rl.limiters, key)
		}
	}
}

// evictOldest drops the least recently seen limiter. Caller holds mu.
func (rl *HTTPRateLimiter) evictOldest() {
	var (
		oldestKey string
		oldest    *clientLimiter
	)
	for key, entry := range rl.limiters {
		if oldest == nil || entry.lastSeen.Before(oldest.lastSeen) {
			oldestKey, oldest = key, entry
		}
	}
	delete(rl.limiters, oldestKey)
}

// size returns the number of tracked clients
func (rl *HTTPRateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// getClientIP extracts the client IP address from the request. Forwarding
// headers are honoured only when the peer is a trusted proxy; X-Forwarded-For
// is walked from the right and the first untrusted hop is the client.
func getClientIP(r *http.Request, trusted []netip.Prefix) string {
	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		peer = host
	}
	if !isTrusted(peer, trusted) {
		return peer
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		client := peer
		hops := strings.Split(forwarded, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if _, err := netip.ParseAddr(hop); err != nil {
				break
			}
			client = hop
			if !isTrusted(hop, trusted) {
				break
			}
		}
		return client
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		if _, err := netip.ParseAddr(realIP); err == nil {
			return realIP
		}
	}
	return peer
}

func isTrusted(ip string, trusted []netip.Prefix) bool {
	if len(trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// rateLimitMiddleware rejects requests over the limit with RATE_LIMITED
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.Allow(r) {
			s.metrics.RecordRateLimitBlock(monitoring.PatternRoute(r))
			s.errors.HandleError(w, r, apperrors.NewError(apperrors.ErrCodeRateLimited).
				WithMessage("Rate limit exceeded").
				WithRetryAfter(s.rateLimiter.RetryAfter()).
				Build())
			return
		}
		next.ServeHTTP(w, r)
	})
}
