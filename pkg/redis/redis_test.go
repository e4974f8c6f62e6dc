package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockaura/pkg/config"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return Wrap(rdb), mr
}

func TestNewClient_Disabled(t *testing.T) {
	cfg := &config.Config{Redis: config.RedisConfig{Enabled: false}}

	client, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Ping(context.Background()))
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(Disabled(), "test")
	cfg := APIRateLimit("127.0.0.1", 5, time.Second)

	allowed, remaining, err := limiter.Allow(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, cfg.Limit, remaining)
}

func TestRateLimiter_SlidingWindow(t *testing.T) {
	client, _ := newTestClient(t)
	limiter := NewRateLimiter(client, "test")

	fixed := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return fixed }

	cfg := APIRateLimit("10.0.0.1", 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, remaining, err := limiter.Allow(ctx, cfg)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 2-i, remaining)
	}

	allowed, _, err := limiter.Allow(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, allowed, "fourth request in the same window")

	// other clients have their own window
	allowed, _, err = limiter.Allow(ctx, APIRateLimit("10.0.0.2", 3, time.Minute))
	require.NoError(t, err)
	assert.True(t, allowed)

	limiter.now = func() time.Time { return fixed.Add(2 * time.Minute) }
	allowed, _, err = limiter.Allow(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, allowed, "window slid past the old requests")
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(Disabled(), "test")

	var result string
	found, err := cache.Get(context.Background(), "key", &result)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, cache.Set(context.Background(), "key", "v", TTLShort))
}

func TestCache_RoundTripAndTTL(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewCache(client, "stockaura")
	ctx := context.Background()

	type payload struct {
		Ticker string  `json:"ticker"`
		Score  float64 `json:"score"`
	}

	require.NoError(t, cache.Set(ctx, "k1", payload{"AAPL", 1.5}, TTLShort))
	assert.True(t, mr.Exists("stockaura:cache:k1"))

	var got payload
	found, err := cache.Get(ctx, "k1", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, payload{"AAPL", 1.5}, got)

	mr.FastForward(2 * time.Minute)
	found, err = cache.Get(ctx, "k1", &got)
	require.NoError(t, err)
	assert.False(t, found, "expired")
}

func TestCache_GetOrSet(t *testing.T) {
	client, _ := newTestClient(t)
	cache := NewCache(client, "stockaura")
	ctx := context.Background()

	calls := 0
	fn := func() (any, error) {
		calls++
		return []int{1, 2, 3}, nil
	}

	var first, second []int
	require.NoError(t, cache.GetOrSet(ctx, "list", &first, TTLShort, fn))
	require.NoError(t, cache.GetOrSet(ctx, "list", &second, TTLShort, fn))

	assert.Equal(t, 1, calls)
	assert.Equal(t, []int{1, 2, 3}, second)
}

func TestCache_DeletePrefix(t *testing.T) {
	client, _ := newTestClient(t)
	cache := NewCache(client, "stockaura")
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, VerdictKey("extended_v2", "AAPL", 0.001, 10000), 1, TTLMedium))
	require.NoError(t, cache.Set(ctx, VerdictKey("extended_v2", "AAPL", 0.002, 10000), 2, TTLMedium))
	require.NoError(t, cache.Set(ctx, VerdictKey("extended_v2", "MSFT", 0.001, 10000), 3, TTLMedium))

	n, err := cache.DeletePrefix(ctx, VerdictTickerPrefix("extended_v2", "AAPL"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var v int
	found, _ := cache.Get(ctx, VerdictKey("extended_v2", "MSFT", 0.001, 10000), &v)
	assert.True(t, found)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "verdict:extended_v2:AAPL:0.001:10000", VerdictKey("extended_v2", "AAPL", 0.001, 10000))
	assert.Equal(t, "verdict:base_v1:AAPL:", VerdictTickerPrefix("base_v1", "AAPL"))
	assert.Equal(t, "ranking:extended_v2:50", RankingKey("extended_v2", 50))
}
