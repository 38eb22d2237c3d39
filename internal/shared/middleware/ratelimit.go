package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"library-backend/internal/shared/apperr"
	"library-backend/internal/shared/response"
)

// RateLimiterConfig is a budget of Max requests per Window for each client
// IP. Tokens refill continuously at Window/Max.
type RateLimiterConfig struct {
	Name            string
	Max             int
	Window          time.Duration
	Message         string
	CleanupInterval time.Duration
}

type ipLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	config RateLimiterConfig
	limit  rate.Limit

	mu       sync.Mutex
	limiters map[string]*ipLimiter

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewRateLimiter starts the background cleanup of idle buckets. Call Stop
// on shutdown.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Max < 1 {
		config.Max = 1
	}
	if config.Window <= 0 {
		config.Window = 15 * time.Minute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = config.Window
	}
	if config.Message == "" {
		config.Message = "Too many requests, please try again later."
	}

	rl := &RateLimiter{
		config:   config,
		limit:    rate.Every(config.Window / time.Duration(config.Max)),
		limiters: make(map[string]*ipLimiter),
		stopCh:   make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Middleware rejects requests over budget with 429 TOO_MANY_REQUESTS.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := ClientIP(c)
		lim := rl.limiterFor(ip)

		c.Header("RateLimit-Limit", strconv.Itoa(rl.config.Max))
		c.Header("RateLimit-Remaining", strconv.Itoa(int(math.Max(0, math.Floor(lim.Tokens()-1)))))

		if !lim.Allow() {
			c.Header("Retry-After", strconv.Itoa(rl.retryAfterSeconds()))
			log.Warn().
				Str("ip", ip).
				Str("limiter", rl.config.Name).
				Msg("Rate limit exceeded")
			response.Error(c, apperr.TooManyRequests(rl.config.Message), "")
			return
		}

		c.Next()
	}
}

// Len reports how many client buckets are tracked.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if l, ok := rl.limiters[ip]; ok {
		l.lastAccess = time.Now()
		return l.limiter
	}

	l := &ipLimiter{
		limiter:    rate.NewLimiter(rl.limit, rl.config.Max),
		lastAccess: time.Now(),
	}
	rl.limiters[ip] = l
	return l.limiter
}

func (rl *RateLimiter) retryAfterSeconds() int {
	secs := int(math.Ceil((rl.config.Window / time.Duration(rl.config.Max)).Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup drops buckets idle for a full window; they would be full again.
func (rl *RateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, l := range rl.limiters {
		if now.Sub(l.lastAccess) > rl.config.Window {
			delete(rl.limiters, ip)
		}
	}
}
