package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"reviewdesk/internal/infrastructure/ratelimit"
	"reviewdesk/pkg/logger"
)

type rateLimitError struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retry_after"`
}

// RateLimitMiddleware guards the console API with a per-IP token
// bucket. A browser tab polling suggestions stays well under the
// limit; a runaway client gets 429s instead of hammering the backend.
func RateLimitMiddleware(limiter *ratelimit.RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			allowed, wait := limiter.Allow(ip)
			if !allowed {
				logger.Warn("Rate limit exceeded for %s (retry in %v)", ip, wait)
				return c.JSON(http.StatusTooManyRequests, rateLimitError{
					Error:      "Rate limit exceeded",
					RetryAfter: int(wait.Seconds()),
				})
			}

			return next(c)
		}
	}
}

// GeneralRateLimit is the default console limit: 120 requests per
// minute, refilled two per second.
func GeneralRateLimit() echo.MiddlewareFunc {
	limiter := ratelimit.NewRateLimiter(120, 2, time.Second)
	limiter.StartCleanupRoutine()
	return RateLimitMiddleware(limiter)
}
