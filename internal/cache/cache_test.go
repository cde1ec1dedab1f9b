package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, 5*time.Minute, zaptest.NewLogger(t)), mr
}

func TestCacheSetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	c.Set(ctx, "campaigns:list:advertiser:1", payload{Name: "open campaigns", Count: 3})

	var got payload
	assert.True(t, c.Get(ctx, "campaigns:list:advertiser:1", &got))
	assert.Equal(t, "open campaigns", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestCacheMiss(t *testing.T) {
	c, _ := newTestCache(t)

	var got map[string]any
	assert.False(t, c.Get(context.Background(), "campaigns:missing", &got))
}

func TestCacheDeletePattern(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "campaigns:detail:a", "a")
	c.Set(ctx, "campaigns:detail:b", "b")
	c.Set(ctx, "users:detail:c", "c")

	c.DeletePattern(ctx, "campaigns:*")

	var got string
	assert.False(t, c.Get(ctx, "campaigns:detail:a", &got))
	assert.False(t, c.Get(ctx, "campaigns:detail:b", &got))
	assert.True(t, c.Get(ctx, "users:detail:c", &got))
	assert.True(t, mr.Exists("users:detail:c"))
}
