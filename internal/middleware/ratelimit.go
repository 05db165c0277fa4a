package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dimitrije/teamup-api/internal/config"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per caller.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu      sync.Mutex
	buckets map[uuid.UUID]*bucket
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		limit:   rate.Every(cfg.Interval),
		burst:   cfg.Burst,
		idleTTL: cfg.Interval * time.Duration(cfg.Burst),
		buckets: make(map[uuid.UUID]*bucket),
	}
}

func (l *RateLimiter) reserve(key uuid.UUID, now time.Time) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Sweep drops buckets that have been idle long enough to be full again.
func (l *RateLimiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.idleTTL {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// RateLimit must run after Auth; anonymous requests are not limited.
func RateLimit(l *RateLimiter) drift.HandlerFunc {
	return func(c *drift.Context) {
		if l.deny(c) {
			return
		}
		c.Next()
	}
}

// deny answers 429 and aborts when the caller's bucket is empty.
func (l *RateLimiter) deny(c *drift.Context) bool {
	userID := GetUserID(c)
	if userID == uuid.Nil {
		return false
	}

	allowed, retryAfter := l.reserve(userID, time.Now())
	if allowed {
		return false
	}

	seconds := int(math.Ceil(retryAfter.Seconds()))
	c.Response.Header().Set("Retry-After", strconv.Itoa(seconds))
	_ = c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many requests, try again later"})
	c.Abort()
	return true
}
