// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/nhtrieuvy/ecommerce-api/internal/utils"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps a token bucket per client IP. retryAfter is surfaced in
// the Retry-After header so storefront clients can back off politely.
type RateLimiter struct {
	visitors   map[string]*visitor
	mtx        sync.Mutex
	rate       rate.Limit
	burst      int
	retryAfter time.Duration
}

func NewRateLimiter(r rate.Limit, b int, retryAfter time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors:   make(map[string]*visitor),
		rate:       r,
		burst:      b,
		retryAfter: retryAfter,
	}

	go rl.cleanupVisitors()

	return rl
}

// cleanupVisitors drops buckets idle for longer than three minutes so the
// map does not grow with every anonymous browser that ever hit the catalog.
func (rl *RateLimiter) cleanupVisitors() {
	for {
		time.Sleep(time.Minute)
		rl.mtx.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(rl.visitors, ip)
			}
		}
		rl.mtx.Unlock()
	}
}

func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.visitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := rl.getVisitor(c.ClientIP())

		if !limiter.Allow() {
			c.Header("Retry-After", strconv.Itoa(int(rl.retryAfter.Seconds())))
			utils.ErrorResponse(c, http.StatusTooManyRequests, "RATE_LIMITED",
				"Too many requests, please slow down", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// Tiers: browsing and comparison are anonymous and bursty (catalog grids
// fire several requests per page), auth endpoints are brute-force targets,
// uploads are expensive.
var (
	generalLimiter = NewRateLimiter(rate.Every(time.Second/20), 40, time.Second)
	authLimiter    = NewRateLimiter(rate.Every(time.Minute/5), 5, time.Minute)
	uploadLimiter  = NewRateLimiter(rate.Every(time.Minute/10), 10, time.Minute)
)

func GeneralRateLimit() gin.HandlerFunc {
	return generalLimiter.Middleware()
}

func AuthRateLimit() gin.HandlerFunc {
	return authLimiter.Middleware()
}

func UploadRateLimit() gin.HandlerFunc {
	return uploadLimiter.Middleware()
}
