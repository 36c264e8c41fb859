package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const syncLockKey = "spayd:sync:lock"

// SyncLock is a cross-replica mutex around sync queue processing. Each
// acquisition stores a fresh token so only the holder can release it.
type SyncLock struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewSyncLock creates a SyncLock whose hold expires after ttl.
func NewSyncLock(redis *RedisClient, ttl time.Duration) *SyncLock {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &SyncLock{redis: redis, ttl: ttl}
}

// TryLock acquires the lock without waiting. On success it returns a release
// func; ok is false when another process holds the lock.
func (l *SyncLock) TryLock(ctx context.Context) (release func(), ok bool, err error) {
	token := uuid.NewString()
	ok, err = l.redis.SetNX(ctx, syncLockKey, token, l.ttl)
	if err != nil || !ok {
		return nil, ok, err
	}
	return func() {
		// The caller's context may already be cancelled when processing ends.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, _ = l.redis.CompareAndDelete(ctx, syncLockKey, token)
	}, true, nil
}
