package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only if it still holds our token, so a lock
// that expired and was taken by someone else is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client redis.Cmdable
	prefix string
	wait   time.Duration
}

func NewRedisLocker(client redis.Cmdable, prefix string, wait time.Duration) *RedisLocker {
	return &RedisLocker{client: client, prefix: prefix, wait: wait}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (ReleaseFunc, error) {
	fullKey := l.prefix + key
	token := uuid.NewString()

	err := retry(ctx, l.wait, func() (bool, error) {
		return l.client.SetNX(ctx, fullKey, token, ttl).Result()
	})
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context) error {
		return releaseScript.Run(ctx, l.client, []string{fullKey}, token).Err()
	}, nil
}
