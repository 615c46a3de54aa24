package store

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedStore_FallsBackWhenRedisIsDown(t *testing.T) {
	// given
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	backing := NewInMemoryStore()
	cached := NewCachedStore(backing, client, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	// when
	created, insertErr := cached.InsertUnique(ctx, "ABC-12", "Widget")
	found, findErr := cached.FindBySku(ctx, "ABC-12")

	// then
	require.NoError(t, insertErr)
	require.NoError(t, findErr)
	assert.Equal(t, created.ID, found.ID)
	assert.Error(t, cached.Ping(ctx))
}
