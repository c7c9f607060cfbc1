package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "portal:news", Key("news"))
	assert.Equal(t, "portal:news:published:2:10", Key("news", "published", 2, 10))
}

func TestNilCacheIsANoop(t *testing.T) {
	ctx := context.Background()
	var nilCache *Cache
	c := New(nil, time.Minute)

	for _, cc := range []*Cache{nilCache, c} {
		var dst []string
		cc.SetJSON(ctx, "k", []string{"a"})
		assert.False(t, cc.GetJSON(ctx, "k", &dst))
		cc.Invalidate(ctx, "news")
		assert.Nil(t, cc.Client())
	}
}

func TestRateLimitWithoutRedisAllows(t *testing.T) {
	ctx := context.Background()
	ok, err := CheckAndSetRateLimit(ctx, nil, "203.0.113.9", "contact", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ttl, err := GetRateLimitTTL(ctx, nil, "203.0.113.9", "contact")
	require.NoError(t, err)
	assert.Zero(t, ttl)
	assert.NoError(t, ClearRateLimit(ctx, nil, "203.0.113.9", "contact"))
}
