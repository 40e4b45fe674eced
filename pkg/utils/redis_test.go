package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrWindow_CountsAndExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := OpenRedis(context.Background(), RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer rdb.Close()

	ctx := context.Background()
	for want := int64(1); want <= 3; want++ {
		got, remaining, err := IncrWindow(ctx, rdb, "k", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, time.Minute, remaining)
	}
	ttl := mr.TTL("k")
	assert.True(t, ttl > 0 && ttl <= time.Minute, "ttl %s outside window", ttl)

	mr.FastForward(40 * time.Second)
	got, remaining, err := IncrWindow(ctx, rdb, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got)
	assert.Equal(t, 20*time.Second, remaining)

	mr.FastForward(21 * time.Second)
	got, _, err = IncrWindow(ctx, rdb, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got, "counter resets after window")
}

func TestIncrWindow_ValidatesArgs(t *testing.T) {
	_, _, err := IncrWindow(context.Background(), nil, "k", time.Second)
	assert.Error(t, err)
}

func TestOpenRedis_RequiresAddr(t *testing.T) {
	_, err := OpenRedis(context.Background(), RedisConfig{})
	assert.Error(t, err)
}
