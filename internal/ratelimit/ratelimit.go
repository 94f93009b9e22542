// File: internal/ratelimit/ratelimit.go

// Package ratelimit provides a windowed request limiter for auth endpoints,
// backed by an expiring in-memory cache.
package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Config holds rate limiting configuration.
type Config struct {
	WindowSize  time.Duration // counting window per identifier
	MaxAttempts int           // attempts allowed per window
	BanDuration time.Duration // lockout after exceeding the limit
}

// DefaultAuthConfig returns sensible defaults for auth endpoints.
func DefaultAuthConfig() *Config {
	return &Config{
		WindowSize:  15 * time.Minute,
		MaxAttempts: 5,
		BanDuration: 30 * time.Minute,
	}
}

type attemptRecord struct {
	mu     sync.Mutex
	count  int
	banned bool
}

// Limiter tracks attempts per identifier. Window expiry and cleanup are
// delegated to the cache's TTL handling.
type Limiter struct {
	config   *Config
	attempts *gocache.Cache
}

func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultAuthConfig()
	}
	return &Limiter{
		config:   config,
		attempts: gocache.New(config.WindowSize, 2*config.WindowSize),
	}
}

// Allow records an attempt for the identifier and reports whether it is
// within the limit.
func (l *Limiter) Allow(identifier string) bool {
	record := &attemptRecord{}
	if err := l.attempts.Add(identifier, record, gocache.DefaultExpiration); err != nil {
		existing, ok := l.attempts.Get(identifier)
		if !ok {
			// The record expired between Add and Get; start a fresh window.
			l.attempts.Set(identifier, record, gocache.DefaultExpiration)
		} else {
			record = existing.(*attemptRecord)
		}
	}

	record.mu.Lock()
	defer record.mu.Unlock()

	if record.banned {
		return false
	}
	record.count++
	if record.count > l.config.MaxAttempts {
		record.banned = true
		l.attempts.Set(identifier, record, l.config.BanDuration)
		return false
	}
	return true
}

// Middleware limits requests per client IP, answering 429 over the limit.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", l.config.BanDuration.String())
			http.Error(w, `{"error":"too many requests"}`, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
