package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/config"
)

// limiterTable tracks per-IP limiters for one expensive operation.
// Whisper transcription and image uploads each get their own table so a
// burst of one cannot exhaust the budget of the other.
type limiterTable struct {
	mu       sync.Mutex
	visitors map[string]*limiterEntry
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterTable() *limiterTable {
	return &limiterTable{visitors: make(map[string]*limiterEntry)}
}

// get returns the limiter for ip, creating one sized to
// requestsPerWindow over windowSeconds. A non-positive request budget
// disables limiting and returns nil.
func (t *limiterTable) get(ip string, requestsPerWindow, windowSeconds int) *rate.Limiter {
	if requestsPerWindow <= 0 {
		return nil
	}
	if windowSeconds <= 0 {
		windowSeconds = 60
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if entry, ok := t.visitors[ip]; ok {
		entry.lastSeen = time.Now()
		return entry.limiter
	}

	limiter := rate.NewLimiter(
		rate.Limit(float64(requestsPerWindow)/float64(windowSeconds)),
		requestsPerWindow,
	)
	t.visitors[ip] = &limiterEntry{limiter: limiter, lastSeen: time.Now()}
	return limiter
}

func (t *limiterTable) evictIdle(threshold time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for ip, entry := range t.visitors {
		if time.Since(entry.lastSeen) > threshold {
			delete(t.visitors, ip)
		}
	}
}

var (
	transcribeLimiters = newLimiterTable()
	uploadLimiters     = newLimiterTable()
	limiterCleanupOnce sync.Once
)

func startLimiterCleanup() {
	limiterCleanupOnce.Do(func() {
		go func() {
			for {
				time.Sleep(5 * time.Minute)
				transcribeLimiters.evictIdle(10 * time.Minute)
				uploadLimiters.evictIdle(10 * time.Minute)
			}
		}()
	})
}

// TranscribeRateLimitMiddleware limits transcription requests per IP.
// Each request triggers a blocking Whisper call, so the budget is tight:
// default 6 requests per 5 minutes.
func TranscribeRateLimitMiddleware(cfg *config.Config) gin.HandlerFunc {
	startLimiterCleanup()

	return func(c *gin.Context) {
		limiter := transcribeLimiters.get(
			c.ClientIP(),
			cfg.TranscribeRateLimitRequests,
			cfg.TranscribeRateLimitWindow,
		)
		if limiter != nil && !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"status":  "error",
				"message": "Too many transcription requests. Please try again later.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// UploadRateLimitMiddleware limits image upload requests per IP.
// Default: 10 requests per 5 minutes.
func UploadRateLimitMiddleware(cfg *config.Config) gin.HandlerFunc {
	startLimiterCleanup()

	return func(c *gin.Context) {
		limiter := uploadLimiters.get(
			c.ClientIP(),
			cfg.UploadRateLimitRequests,
			cfg.UploadRateLimitWindow,
		)
		if limiter != nil && !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "upload rate limit exceeded",
				"message": "Too many upload requests. Please try again later.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
