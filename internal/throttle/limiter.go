package throttle

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"bdf-gateway/pkg/logger"
	"bdf-gateway/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

var ErrInvalidConfig = errors.New("throttle: invalid configuration")

const keyPrefix = "bdf:login:"

// Limiter caps hits per key in a fixed window, counted in Redis so every
// API instance shares the same budget.
type Limiter struct {
	rdb    redis.Scripter
	limit  int64
	window time.Duration
}

func NewLimiter(rdb redis.Scripter, limit int, window time.Duration) (*Limiter, error) {
	if rdb == nil || limit <= 0 || window <= 0 {
		return nil, ErrInvalidConfig
	}
	return &Limiter{rdb: rdb, limit: int64(limit), window: window}, nil
}

// Allow counts one hit for key and reports whether it is within the limit, along
// with the time left in the current window.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	n, remaining, err := utils.IncrWindow(ctx, l.rdb, keyPrefix+key, l.window)
	if err != nil {
		return false, 0, err
	}
	return n <= l.limit, remaining, nil
}

// retryAfterSeconds rounds up so a client never retries inside the window.
func retryAfterSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}

// LoginByIP throttles login attempts per client IP before any credential is examined.
// A nil limiter disables throttling. Redis failures fail open.
func LoginByIP(l *Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}
		ok, remaining, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.FromGin(c).Warn("login throttle unavailable", "err", err)
			c.Next()
			return
		}
		if !ok {
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(remaining)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
