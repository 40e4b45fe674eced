package throttle

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(l *Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", LoginByIP(l), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func hit(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = ip + ":4000"
	r.ServeHTTP(w, req)
	return w
}

func TestLoginByIP_BlocksAfterLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	l, err := NewLimiter(rdb, 2, time.Minute)
	require.NoError(t, err)
	r := newRouter(l)

	assert.Equal(t, http.StatusOK, hit(r, "198.51.100.1").Code)
	assert.Equal(t, http.StatusOK, hit(r, "198.51.100.1").Code)

	w := hit(r, "198.51.100.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, w.Body.String())
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	// Other callers have their own budget.
	assert.Equal(t, http.StatusOK, hit(r, "198.51.100.2").Code)

	mr.FastForward(45 * time.Second)
	w = hit(r, "198.51.100.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "15", w.Header().Get("Retry-After"), "remaining window, not the full window")

	mr.FastForward(16 * time.Second)
	assert.Equal(t, http.StatusOK, hit(r, "198.51.100.1").Code)
}

func TestLoginByIP_SubSecondWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	l, err := NewLimiter(rdb, 1, 500*time.Millisecond)
	require.NoError(t, err)
	r := newRouter(l)

	assert.Equal(t, http.StatusOK, hit(r, "198.51.100.9").Code)
	w := hit(r, "198.51.100.9")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestRetryAfterSeconds(t *testing.T) {
	cases := map[time.Duration]int{
		0:                       1,
		300 * time.Millisecond:  1,
		time.Second:             1,
		1200 * time.Millisecond: 2,
		time.Minute:             60,
	}
	for in, want := range cases {
		assert.Equal(t, want, retryAfterSeconds(in), in.String())
	}
}

func TestLoginByIP_WindowResets(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	l, err := NewLimiter(rdb, 1, time.Minute)
	require.NoError(t, err)
	r := newRouter(l)

	assert.Equal(t, http.StatusOK, hit(r, "198.51.100.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "198.51.100.1").Code)

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, hit(r, "198.51.100.1").Code)
}

func TestLoginByIP_FailsOpenWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()

	l, err := NewLimiter(rdb, 1, time.Minute)
	require.NoError(t, err)
	mr.Close()

	assert.Equal(t, http.StatusOK, hit(newRouter(l), "198.51.100.1").Code)
}

func TestLoginByIP_NilLimiterDisabled(t *testing.T) {
	r := newRouter(nil)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "198.51.100.1").Code)
	}
}

func TestNewLimiter_ValidatesConfig(t *testing.T) {
	_, err := NewLimiter(nil, 1, time.Second)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
