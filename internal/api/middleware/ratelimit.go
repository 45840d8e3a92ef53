package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/LeartBytyqi1/my-fit-companion/internal/metrics"
)

// RateLimit defines limits for an endpoint pattern.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	Whitelist []string // IPs or CIDRs exempt from rate limiting
}

// RateLimiter implements fixed-window rate limiting backed by Redis
// counters. Limits are keyed "METHOD /path-prefix"; the longest matching
// pattern wins.
type RateLimiter struct {
	client       *redis.Client
	logger       zerolog.Logger
	limits       map[string]RateLimit
	whitelist    []*net.IPNet
	whitelistIPs map[string]bool
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(client *redis.Client, logger zerolog.Logger, cfg RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		client:       client,
		logger:       logger,
		whitelistIPs: make(map[string]bool),
		limits: map[string]RateLimit{
			"POST /api/auth/": {5, 15 * time.Minute},
			"GET /api/":       {100, 15 * time.Minute},
			"POST /api/":      {60, 15 * time.Minute},
			"PUT /api/":       {60, 15 * time.Minute},
		},
	}

	// Parse whitelist entries
	for _, entry := range cfg.Whitelist {
		if strings.Contains(entry, "/") {
			// CIDR notation
			_, ipNet, err := net.ParseCIDR(entry)
			if err != nil {
				logger.Warn().Str("entry", entry).Err(err).Msg("invalid CIDR in whitelist")
				continue
			}
			rl.whitelist = append(rl.whitelist, ipNet)
		} else {
			// Single IP
			rl.whitelistIPs[entry] = true
		}
	}

	return rl
}

// Middleware enforces the configured limits per client IP.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Without Redis run open; the limiter is availability, not security
		if rl.client == nil {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		if rl.isWhitelisted(ip) {
			next.ServeHTTP(w, r)
			return
		}

		pattern, limit, ok := rl.match(r.Method, r.URL.Path)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", pattern, ip)
		pipe := rl.client.Pipeline()
		incr := pipe.Incr(r.Context(), key)
		pipe.Expire(r.Context(), key, limit.Window)
		if _, err := pipe.Exec(r.Context()); err != nil {
			// Redis trouble must not take the API down
			rl.logger.Warn().Err(err).Msg("rate limiter unavailable; allowing request")
			next.ServeHTTP(w, r)
			return
		}

		count := incr.Val()
		remaining := int64(limit.Requests) - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit.Requests))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(limit.Requests) {
			metrics.RateLimitHits.WithLabelValues(pattern).Inc()
			w.Header().Set("Retry-After", strconv.Itoa(int(limit.Window.Seconds())))
			jsonError(w, http.StatusTooManyRequests, "too many requests, please try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// match finds the longest limit pattern covering this request.
func (rl *RateLimiter) match(method, path string) (string, RateLimit, bool) {
	var (
		bestPattern string
		bestLimit   RateLimit
		found       bool
	)
	for pattern, limit := range rl.limits {
		parts := strings.SplitN(pattern, " ", 2)
		if parts[0] != method || !strings.HasPrefix(path, parts[1]) {
			continue
		}
		if !found || len(parts[1]) > len(strings.SplitN(bestPattern, " ", 2)[1]) {
			bestPattern, bestLimit, found = pattern, limit, true
		}
	}
	return bestPattern, bestLimit, found
}

func (rl *RateLimiter) isWhitelisted(ip string) bool {
	if rl.whitelistIPs[ip] {
		return true
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, ipNet := range rl.whitelist {
		if ipNet.Contains(parsed) {
			return true
		}
	}
	return false
}

func clientIP(r *http.Request) string {
	// chi RealIP middleware rewrites RemoteAddr from X-Forwarded-For
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
