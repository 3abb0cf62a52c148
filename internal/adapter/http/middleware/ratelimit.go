package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	redisStore "alumni-platform/internal/adapter/storage/redis"
	"alumni-platform/pkg/apperror"
	"alumni-platform/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Rate limit groups.
const (
	GroupDonationsOrder  = "donations_order"
	GroupDonationsVerify = "donations_verify"
	GroupDonationsRead   = "donations_read"
	GroupAuthLogin       = "auth_login"
	GroupAuthRegister    = "auth_register"
)

// Limiter counts requests in fixed windows. *redis.RateLimitStore implements it.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*redisStore.RateLimitResult, error)
}

// RateLimitRule defines a rate limit for an endpoint group.
type RateLimitRule struct {
	Limit  int64
	Window time.Duration
}

// DefaultRateLimitRules returns the limits applied per endpoint group.
func DefaultRateLimitRules() map[string]RateLimitRule {
	return map[string]RateLimitRule{
		GroupDonationsOrder:  {Limit: 20, Window: time.Minute},
		GroupDonationsVerify: {Limit: 30, Window: time.Minute},
		GroupDonationsRead:   {Limit: 60, Window: time.Minute},
		GroupAuthLogin:       {Limit: 10, Window: time.Minute},
		GroupAuthRegister:    {Limit: 5, Window: time.Hour},
	}
}

// RateLimiter creates a rate-limiting middleware for a given endpoint group.
// Limiter errors let the request through.
func RateLimiter(store Limiter, group string, rule RateLimitRule, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", group, extractIdentifier(c))

		result, err := store.Allow(c.Request.Context(), key, rule.Limit, rule.Window)
		if err != nil {
			log.Warn().Err(err).Str("group", group).Msg("rate limit check failed, allowing request (degraded mode)")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			retryAfter := result.ResetAt - time.Now().Unix()
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			response.Error(c, apperror.ErrRateLimitExceeded())
			c.Abort()
			return
		}

		c.Next()
	}
}

// extractIdentifier keys authenticated callers by account, everyone else by IP.
// Auth middleware must run first for the account key to apply.
func extractIdentifier(c *gin.Context) string {
	if id, ok := AccountID(c); ok {
		return "acct:" + id.String()
	}
	return "ip:" + c.ClientIP()
}
