package ratelimit

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config holds rate limiter configuration
type Config struct {
	RequestsPerMin  int // per-IP request limit per minute
	BurstMultiplier int // burst capacity multiplier
}

// DefaultConfig returns default rate limiting configuration
func DefaultConfig() Config {
	return Config{
		RequestsPerMin:  120,
		BurstMultiplier: 2,
	}
}

// Result represents the result of a rate limit check
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter provides in-memory per-IP rate limiting with token buckets. All
// queries run against the local snapshot, so there is no distributed state to
// coordinate across instances.
type Limiter struct {
	config Config

	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
}

// NewLimiter creates a new per-IP rate limiter
func NewLimiter(config Config) *Limiter {
	l := &Limiter{
		config:   config,
		limiters: make(map[string]*rate.Limiter),
	}

	go l.cleanupLimiters()

	return l
}

// AllowIP checks if an IP address is allowed to make a request
func (l *Limiter) AllowIP(ip string) *Result {
	l.mu.Lock()
	limiter, exists := l.limiters[ip]
	if !exists {
		rps := rate.Limit(float64(l.config.RequestsPerMin) / 60.0)
		burst := l.config.RequestsPerMin * l.config.BurstMultiplier / 60
		if burst < 5 {
			burst = 5
		}
		limiter = rate.NewLimiter(rps, burst)
		l.limiters[ip] = limiter
	}
	l.mu.Unlock()

	allowed := limiter.Allow()

	remaining := int(limiter.Tokens())
	if remaining < 0 {
		remaining = 0
	}

	result := &Result{
		Allowed:   allowed,
		Limit:     l.config.RequestsPerMin,
		Remaining: remaining,
	}

	if !allowed {
		result.RetryAfter = time.Minute
	}

	return result
}

// cleanupLimiters periodically resets the per-IP limiter map so idle clients
// do not accumulate forever
func (l *Limiter) cleanupLimiters() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		if len(l.limiters) > 1000 {
			slog.Info("Cleaning up rate limiters", "count", len(l.limiters))
			l.limiters = make(map[string]*rate.Limiter)
		}
		l.mu.Unlock()
	}
}

// GetStats returns rate limiter statistics
func (l *Limiter) GetStats() map[string]interface{} {
	l.mu.RLock()
	count := len(l.limiters)
	l.mu.RUnlock()

	return map[string]interface{}{
		"tracked_ips":      count,
		"requests_per_min": l.config.RequestsPerMin,
	}
}
