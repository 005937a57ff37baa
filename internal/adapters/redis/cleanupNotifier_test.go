package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestNotifier(t *testing.T) (*CleanupNotifierRedis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCleanupNotifierRedis(client, zap.NewNop()), mr
}

func TestNotifyCollapsesToOneToken(t *testing.T) {
	ctx := context.Background()
	n, mr := newTestNotifier(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, n.Notify(ctx))
	}
	items, err := mr.List(CleanupWakeupKey)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	woke, err := n.Wait(ctx, time.Second)
	require.NoError(t, err)
	assert.True(t, woke)
	assert.False(t, mr.Exists(CleanupWakeupKey))
}

func TestWaitTimesOut(t *testing.T) {
	n, _ := newTestNotifier(t)

	start := time.Now()
	woke, err := n.Wait(context.Background(), time.Second)
	require.NoError(t, err)
	assert.False(t, woke)
	assert.GreaterOrEqual(t, time.Since(start), 900*time.Millisecond)
}

func TestWaitReturnsOnNotify(t *testing.T) {
	ctx := context.Background()
	n, _ := newTestNotifier(t)

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = n.Notify(ctx)
	}()

	woke, err := n.Wait(ctx, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, woke)
}

func TestNotifyFailsWhenServerDown(t *testing.T) {
	n, mr := newTestNotifier(t)
	mr.Close()

	assert.Error(t, n.Notify(context.Background()))
}
