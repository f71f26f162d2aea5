package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"checkit-dashboard/internal/config"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware limits the request rate per client IP. Requests for
// assets and probes are never limited.
func RateLimitMiddleware(cfg *config.Config, manager *RateLimitManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if manager == nil || shouldBypassRateLimit(c.Request) {
			c.Next()
			return
		}

		limiter := manager.GetVisitor(
			c.ClientIP(),
			cfg.RateLimitRequests,
			cfg.RateLimitWindow,
			cfg.RateLimitBurst,
		)

		if limiter == nil {
			c.Next()
			return
		}

		if !limiter.Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}

func shouldBypassRateLimit(r *http.Request) bool {
	if r == nil || r.URL == nil {
		return false
	}

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}

	path := r.URL.Path
	if strings.HasPrefix(path, "/static/") {
		return true
	}

	switch path {
	case "/favicon.ico", "/health", "/metrics":
		return true
	}

	return false
}
