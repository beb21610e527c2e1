package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisLocker_AcquiresAndReleases(t *testing.T) {
	mr, client := newTestRedis(t)
	locker := NewRedisLocker(client, 5*time.Second)

	err := locker.WithLock(context.Background(), "sales_data", func(ctx context.Context) error {
		require.True(t, mr.Exists(lockKeyPrefix+"sales_data"))
		assert.Equal(t, 5*time.Second, mr.TTL(lockKeyPrefix+"sales_data"))
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists(lockKeyPrefix+"sales_data"))
}

func TestRedisLocker_ReleasesOnError(t *testing.T) {
	mr, client := newTestRedis(t)
	locker := NewRedisLocker(client, time.Second)

	boom := errors.New("boom")
	err := locker.WithLock(context.Background(), "sales_data", func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists(lockKeyPrefix+"sales_data"))
}

func TestRedisLocker_SecondHolderGetsBusy(t *testing.T) {
	mr, client := newTestRedis(t)
	require.NoError(t, mr.Set(lockKeyPrefix+"product_data", "someone-else"))

	locker := &redisLocker{client: client, ttl: time.Second, retries: 2}
	called := false
	err := locker.WithLock(context.Background(), "product_data", func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrLockBusy)
	assert.False(t, called)

	held, err := mr.Get(lockKeyPrefix + "product_data")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", held)
}

func TestRedisLocker_ReleaseKeepsKeyTakenByAnotherToken(t *testing.T) {
	mr, client := newTestRedis(t)
	locker := NewRedisLocker(client, time.Second)
	key := lockKeyPrefix + "sales_data"

	err := locker.WithLock(context.Background(), "sales_data", func(ctx context.Context) error {
		// Our TTL lapsed and another process took the lock.
		return mr.Set(key, "other-token")
	})
	require.NoError(t, err)

	held, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "other-token", held)
}

func TestRedisLocker_StopsWaitingWhenContextEnds(t *testing.T) {
	mr, client := newTestRedis(t)
	require.NoError(t, mr.Set(lockKeyPrefix+"sales_data", "someone-else"))

	locker := NewRedisLocker(client, time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := locker.WithLock(ctx, "sales_data", func(ctx context.Context) error {
		t.Fatal("lock must not be acquired")
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRedisLocker_SerializesAcrossLockers(t *testing.T) {
	_, client := newTestRedis(t)
	a := NewRedisLocker(client, 5*time.Second)
	b := NewRedisLocker(client, 5*time.Second)

	inside := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- a.WithLock(context.Background(), "sales_data", func(ctx context.Context) error {
			close(inside)
			<-release
			return nil
		})
	}()
	<-inside

	var released atomic.Bool
	go func() {
		time.Sleep(100 * time.Millisecond)
		released.Store(true)
		close(release)
	}()

	err := b.WithLock(context.Background(), "sales_data", func(ctx context.Context) error {
		assert.True(t, released.Load())
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, <-done)
}
