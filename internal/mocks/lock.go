package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/segyhp/receipt-debt-engine/internal/lock"
)

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (lock.ReleaseFunc, error) {
	args := m.Called(ctx, key, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(lock.ReleaseFunc), args.Error(1)
}

// NoopRelease is a release func for stubbed locks
func NoopRelease(context.Context) error {
	return nil
}
