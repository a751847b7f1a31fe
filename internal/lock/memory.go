package lock

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	token     uint64
	expiresAt time.Time
}

// MemoryLocker is a keyed mutex for single instance deployments and tests
type MemoryLocker struct {
	mu      sync.Mutex
	held    map[string]memoryEntry
	counter uint64
	wait    time.Duration
}

func NewMemoryLocker(wait time.Duration) *MemoryLocker {
	return &MemoryLocker{held: make(map[string]memoryEntry), wait: wait}
}

func (l *MemoryLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (ReleaseFunc, error) {
	var token uint64

	err := retry(ctx, l.wait, func() (bool, error) {
		l.mu.Lock()
		defer l.mu.Unlock()

		now := time.Now()
		if entry, ok := l.held[key]; ok && now.Before(entry.expiresAt) {
			return false, nil
		}
		l.counter++
		token = l.counter
		l.held[key] = memoryEntry{token: token, expiresAt: now.Add(ttl)}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if entry, ok := l.held[key]; ok && entry.token == token {
			delete(l.held, key)
		}
		return nil
	}, nil
}
