package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// NewRateLimiter builds a limiter for the formatted rate (e.g. "5-M").
// Counters live in redis when a client is given so several instances share them,
// otherwise in process memory.
func NewRateLimiter(formattedRate string, redisClient *redis.Client) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formattedRate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", formattedRate, err)
	}

	var store limiter.Store
	if redisClient != nil {
		store, err = sredis.NewStoreWithOptions(redisClient, limiter.StoreOptions{Prefix: "wallet_rate_limit"})
		if err != nil {
			return nil, fmt.Errorf("failed to create redis limiter store: %w", err)
		}
	} else {
		store = memory.NewStore()
	}
	return limiter.New(store, rate), nil
}

// RateLimit creates a Gin middleware for rate limiting requests by client IP.
func RateLimit(limiterInstance *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		logger := GetLoggerFromCtx(c.Request.Context())

		context, err := limiterInstance.Get(c.Request.Context(), ip)
		if err != nil {
			logger.Error("Failed to get rate limit context", slog.String("ip", ip), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during rate limit check"})
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprint(context.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprint(context.Remaining))

		if context.Reached {
			logger.Warn("Rate limit exceeded", slog.String("ip", ip), slog.Int64("limit", context.Limit))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
			return
		}

		c.Next()
	}
}
