package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"go-contact-relay/internal/domain"
	"go-contact-relay/pkg/apperror"
	"go-contact-relay/pkg/logger"
	"go-contact-relay/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	Limiter ratelimit.Limiter
	// Custom key extractor (default: IP-based)
	KeyFunc func(*gin.Context) string
	// Message returned with 429
	Message string
	// Whether to fail closed (reject) when the limiter errors
	FailClosed bool
}

// ContactRateLimitConfig returns the policy for the contact endpoint
func ContactRateLimitConfig(limiter ratelimit.Limiter) RateLimitConfig {
	return RateLimitConfig{
		Limiter:    limiter,
		Message:    domain.MsgTooManyRequests,
		FailClosed: false, // Fail open by default for availability
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// RateLimitMiddleware creates a rate limiting middleware with the given config.
// It runs before binding, so rejected requests never reach validation.
// Rejections are pushed with c.Error and rendered by ErrorHandler.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := config.KeyFunc(c)

		decision, err := config.Limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Log.WarnContext(c.Request.Context(), "Rate limiter unavailable", "error", err, "ip", key)
			if config.FailClosed {
				c.Error(apperror.New(http.StatusServiceUnavailable, domain.MsgInternalError, err))
				c.Abort()
				return
			}
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", decision.ResetAt.UTC().Format(time.RFC3339))

		if !decision.Allowed {
			retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			logger.Log.WarnContext(c.Request.Context(), "Rate limit triggered", "ip", key, "path", c.FullPath())

			c.Error(apperror.TooManyRequests(config.Message))
			c.Abort()
			return
		}

		c.Next()
	}
}
