// Package ratelimit guards the public submission endpoint with a per-IP
// fixed-window limit.
package ratelimit

import (
	"fmt"
	"time"

	"github.com/derintolu/frs-lead-pages-sub002/internal/apierrors"
	redisclient "github.com/derintolu/frs-lead-pages-sub002/internal/clients/redis"
	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"

	"github.com/gin-gonic/gin"
)

const window = time.Minute

// SubmitLimiter limits public submissions per client IP. Without a Redis
// backend the limiter allows everything: rate limiting is an optional
// hardening layer, not a correctness requirement.
type SubmitLimiter struct {
	redis     *redisclient.Client
	perMinute int
	logger    *observability.Logger
}

func NewSubmitLimiter(redis *redisclient.Client, perMinute int, logger *observability.Logger) *SubmitLimiter {
	return &SubmitLimiter{
		redis:     redis,
		perMinute: perMinute,
		logger:    logger,
	}
}

// Middleware enforces the limit. Redis errors fail open: an unreachable
// limiter backend must not block lead capture.
func (l *SubmitLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.redis.IsEnabled() || l.perMinute <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("ratelimit:submit:%s", c.ClientIP())

		count, err := l.redis.IncrWindow(ctx, key, window)
		if err != nil {
			l.logger.Error(ctx, "rate limiter backend error, allowing request", err)
			c.Next()
			return
		}

		if count > int64(l.perMinute) {
			l.logger.Warn(observability.WithFields(ctx,
				observability.Field{Key: "client_ip", Value: c.ClientIP()}),
				"submission rate limit exceeded")
			apierrors.RespondWithError(c, apierrors.TooManyRequests("Too many submissions. Please try again in a minute."))
			c.Abort()
			return
		}
		c.Next()
	}
}
