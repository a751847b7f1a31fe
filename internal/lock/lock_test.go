package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLocker(t *testing.T, wait time.Duration) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisLocker(client, "lock:debt:", wait), mr
}

func lockers(t *testing.T, wait time.Duration) map[string]Locker {
	redisLocker, _ := newRedisLocker(t, wait)
	return map[string]Locker{
		"redis":  redisLocker,
		"memory": NewMemoryLocker(wait),
	}
}

func TestLocker_ExclusiveUntilReleased(t *testing.T) {
	for name, locker := range lockers(t, 50*time.Millisecond) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			release, err := locker.Acquire(ctx, "a", time.Minute)
			require.NoError(t, err)

			_, err = locker.Acquire(ctx, "a", time.Minute)
			assert.True(t, errors.Is(err, ErrNotAcquired))

			other, err := locker.Acquire(ctx, "b", time.Minute)
			require.NoError(t, err)
			require.NoError(t, other(ctx))

			require.NoError(t, release(ctx))

			again, err := locker.Acquire(ctx, "a", time.Minute)
			require.NoError(t, err)
			require.NoError(t, again(ctx))
		})
	}
}

func TestLocker_WaitsForRelease(t *testing.T) {
	for name, locker := range lockers(t, 2*time.Second) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			release, err := locker.Acquire(ctx, "k", time.Minute)
			require.NoError(t, err)

			go func() {
				time.Sleep(60 * time.Millisecond)
				_ = release(ctx)
			}()

			next, err := locker.Acquire(ctx, "k", time.Minute)
			require.NoError(t, err)
			require.NoError(t, next(ctx))
		})
	}
}

func TestLocker_MutualExclusion(t *testing.T) {
	for name, locker := range lockers(t, 5*time.Second) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var inside, maxInside int32
			var wg sync.WaitGroup

			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					release, err := locker.Acquire(ctx, "shared", time.Minute)
					if !assert.NoError(t, err) {
						return
					}
					n := atomic.AddInt32(&inside, 1)
					for {
						m := atomic.LoadInt32(&maxInside)
						if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
							break
						}
					}
					time.Sleep(2 * time.Millisecond)
					atomic.AddInt32(&inside, -1)
					assert.NoError(t, release(ctx))
				}()
			}
			wg.Wait()

			assert.Equal(t, int32(1), maxInside)
		})
	}
}

func TestRedisLocker_ExpiredLockIsNotReleasedByOldOwner(t *testing.T) {
	locker, mr := newRedisLocker(t, 10*time.Millisecond)
	ctx := context.Background()

	stale, err := locker.Acquire(ctx, "x", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	current, err := locker.Acquire(ctx, "x", time.Minute)
	require.NoError(t, err)

	require.NoError(t, stale(ctx))
	assert.True(t, mr.Exists("lock:debt:x"))

	require.NoError(t, current(ctx))
	assert.False(t, mr.Exists("lock:debt:x"))
}

func TestMemoryLocker_ExpiredLockCanBeTaken(t *testing.T) {
	locker := NewMemoryLocker(10 * time.Millisecond)
	ctx := context.Background()

	stale, err := locker.Acquire(ctx, "x", time.Millisecond)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	current, err := locker.Acquire(ctx, "x", time.Minute)
	require.NoError(t, err)

	require.NoError(t, stale(ctx))
	_, err = locker.Acquire(ctx, "x", time.Minute)
	assert.True(t, errors.Is(err, ErrNotAcquired))

	require.NoError(t, current(ctx))
}

func TestLocker_ContextCancelled(t *testing.T) {
	locker := NewMemoryLocker(time.Minute)
	release, err := locker.Acquire(context.Background(), "c", time.Minute)
	require.NoError(t, err)
	defer release(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = locker.Acquire(ctx, "c", time.Minute)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
