package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"taplink/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	FeedbackMaxPerWindow = 5
	FeedbackWindow       = 10 * time.Minute

	RedeemMaxPerWindow = 10
	RedeemWindow       = 1 * time.Minute
)

// FeedbackRateLimit caps anonymous feedback submissions per IP. With a nil
// Redis client (local setups, tests) it is a no-op.
func FeedbackRateLimit(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		ctx := context.Background()
		key := "feedback_attempts:" + c.ClientIP()

		attempts, _ := rdb.Get(ctx, key).Int()
		if attempts >= FeedbackMaxPerWindow {
			ttl := rdb.TTL(ctx, key).Val()
			c.Header("Retry-After", fmt.Sprintf("%d", int(ttl.Seconds())))
			response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED",
				"Too many submissions, try again later")
			c.Abort()
			return
		}

		pipe := rdb.Pipeline()
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, FeedbackWindow)
		pipe.Exec(ctx)

		c.Next()
	}
}

// RedeemRateLimit slows down coupon code guessing per IP.
func RedeemRateLimit(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		ctx := context.Background()
		key := "redeem_attempts:" + c.ClientIP()

		attempts, _ := rdb.Get(ctx, key).Int()
		if attempts >= RedeemMaxPerWindow {
			response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED",
				"Too many redeem attempts, try again in a minute")
			c.Abort()
			return
		}

		pipe := rdb.Pipeline()
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, RedeemWindow)
		pipe.Exec(ctx)

		c.Next()
	}
}
