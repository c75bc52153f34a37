package middleware

import (
	"math"
	"net/http"
	"sync"
	"time"

	"notekeeper/utils"

	"github.com/gin-gonic/gin"
)

// RateLimiter keeps a sliding window of request timestamps per user. The
// table is mutex-guarded and a background janitor evicts users whose entries
// have all aged out, so memory stays bounded by the active user set.
type RateLimiter struct {
	window  time.Duration
	max     int
	message string

	mu      sync.Mutex
	entries map[string][]time.Time

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

func NewRateLimiter(window time.Duration, max int, message string) *RateLimiter {
	if message == "" {
		message = "Too many requests"
	}
	return &RateLimiter{
		window:  window,
		max:     max,
		message: message,
		entries: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Allow records a request for the key unless the window is already full.
// When rejected it returns the seconds to wait, rounded up.
func (rl *RateLimiter) Allow(key string) (bool, int) {
	now := rl.now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	timestamps := rl.entries[key]
	pruned := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			pruned = append(pruned, ts)
		}
	}

	if len(pruned) >= rl.max {
		rl.entries[key] = pruned
		retryAfter := int(math.Ceil(pruned[0].Add(rl.window).Sub(now).Seconds()))
		if retryAfter < 0 {
			retryAfter = 0
		}
		return false, retryAfter
	}

	rl.entries[key] = append(pruned, now)
	return true, 0
}

// evictStale drops users whose most recent request left the window.
func (rl *RateLimiter) evictStale() {
	cutoff := rl.now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, timestamps := range rl.entries {
		if len(timestamps) == 0 || !timestamps[len(timestamps)-1].After(cutoff) {
			delete(rl.entries, key)
		}
	}
}

// StartJanitor evicts stale entries on the given interval until stop is
// closed. A nil stop channel runs the janitor for the process lifetime.
func (rl *RateLimiter) StartJanitor(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.evictStale()
			case <-stop:
				return
			}
		}
	}()
}

// Middleware applies the limiter per authenticated user. Anonymous requests
// bypass the limiter entirely.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Next()
			return
		}

		allowed, retryAfter := rl.Allow(user.UserID)
		if !allowed {
			utils.FailWith(c, http.StatusTooManyRequests, utils.CodeRateLimited,
				rl.message, gin.H{"retryAfter": retryAfter})
			return
		}
		c.Next()
	}
}

// RateLimit builds a limiter with an hourly janitor already running.
func RateLimit(window time.Duration, max int, message string) gin.HandlerFunc {
	limiter := NewRateLimiter(window, max, message)
	limiter.StartJanitor(time.Hour, nil)
	return limiter.Middleware()
}
