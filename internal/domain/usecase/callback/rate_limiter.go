package callback

import (
	"sync"
	"time"

	errs "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/error"
	coreport "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/port/core"
)

// Defaults matching the provider's observed callback volume with headroom
const (
	DefaultRateLimitWindow = time.Minute
	DefaultRateLimitMax    = 100
)

// staleSweepThreshold caps how many source IPs the limiter tracks before it
// sweeps entries whose whole window has elapsed
const staleSweepThreshold = 4096

// RateLimiter rejects a source IP that exceeds a fixed request budget within
// a sliding window. It runs before any payload parsing so a flood never
// amplifies downstream cost. State is in-memory and single-node; when several
// instances share a store the key space should be externalized to stay
// effective.
type RateLimiter struct {
	window       time.Duration
	maxRequests  int
	timeProvider coreport.TimeProvider

	mu   sync.Mutex
	hits map[string][]time.Time
}

// NewRateLimiter creates a sliding-window limiter keyed by source IP.
// Non-positive window or budget fall back to the defaults.
func NewRateLimiter(window time.Duration, maxRequests int, timeProvider coreport.TimeProvider) *RateLimiter {
	if window <= 0 {
		window = DefaultRateLimitWindow
	}
	if maxRequests <= 0 {
		maxRequests = DefaultRateLimitMax
	}
	return &RateLimiter{
		window:       window,
		maxRequests:  maxRequests,
		timeProvider: timeProvider,
		hits:         make(map[string][]time.Time),
	}
}

// Name identifies the layer in security event logs
func (l *RateLimiter) Name() string {
	return "rate_limit"
}

// Validate counts the delivery against the source IP's window. The rejected
// request itself is counted, so a flood keeps the IP saturated.
func (l *RateLimiter) Validate(req *Request) error {
	now := l.timeProvider.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := pruneOlderThan(l.hits[req.SourceIP], now.Add(-l.window))
	recent = append(recent, now)
	l.hits[req.SourceIP] = recent

	if len(l.hits) > staleSweepThreshold {
		l.sweep(now)
	}

	if len(recent) > l.maxRequests {
		return errs.ErrRateLimitExceeded
	}
	return nil
}

// sweep drops IPs whose every hit has left the window. Caller holds the lock.
func (l *RateLimiter) sweep(now time.Time) {
	cutoff := now.Add(-l.window)
	for ip, hits := range l.hits {
		if remaining := pruneOlderThan(hits, cutoff); len(remaining) == 0 {
			delete(l.hits, ip)
		} else {
			l.hits[ip] = remaining
		}
	}
}

func pruneOlderThan(hits []time.Time, cutoff time.Time) []time.Time {
	idx := 0
	for idx < len(hits) && !hits[idx].After(cutoff) {
		idx++
	}
	return hits[idx:]
}
