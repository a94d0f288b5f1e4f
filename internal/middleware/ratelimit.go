package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// actorLimiter pairs a token bucket with its last access time so stale
// entries can be evicted.
type actorLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter keeps one token bucket per actor. The map is the only
// cross-request in-memory state in the process; a background loop evicts
// entries that have been idle longer than three cleanup intervals.
type RateLimiter struct {
	perMinute int

	mu       sync.Mutex
	limiters map[uint64]*actorLimiter

	cleanupInterval time.Duration
	stopCh          chan struct{}
}

// NewRateLimiter creates a limiter allowing perMinute requests per actor.
func NewRateLimiter(perMinute int) *RateLimiter {
	rl := &RateLimiter{
		perMinute:       perMinute,
		limiters:        make(map[uint64]*actorLimiter),
		cleanupInterval: 5 * time.Minute,
		stopCh:          make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop terminates the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// Middleware rejects requests over the per-actor budget with 429. It must
// run after RequireActor.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.Next()
			return
		}

		if !rl.allow(actor.ID) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    "RATE_LIMITED",
				"message": "Too many requests",
			})
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(actorID uint64) bool {
	rl.mu.Lock()
	entry, ok := rl.limiters[actorID]
	if !ok {
		entry = &actorLimiter{
			limiter: rate.NewLimiter(rate.Limit(float64(rl.perMinute)/60.0), rl.perMinute),
		}
		rl.limiters[actorID] = entry
	}
	entry.lastAccess = time.Now()
	rl.mu.Unlock()

	return entry.limiter.Allow()
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-3 * rl.cleanupInterval)
			rl.mu.Lock()
			for id, entry := range rl.limiters {
				if entry.lastAccess.Before(cutoff) {
					delete(rl.limiters, id)
				}
			}
			rl.mu.Unlock()
		}
	}
}
