package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/notesaas/notes-api/internal/core/domain"
)

const (
	defaultLockTTL     = 5 * time.Second
	defaultLockWait    = 3 * time.Second
	defaultRetryPeriod = 25 * time.Millisecond
)

// ErrLockTimeout is returned when the tenant lock could not be acquired in time.
var ErrLockTimeout = fmt.Errorf("%w: tenant lock timed out", domain.ErrUnavailable)

// releaseScript deletes the lock only if it is still held by our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// TenantLock serializes tenant mutations across API instances.
// Key format: lock:tenant:<tenant_id>
type TenantLock struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

// NewTenantLock creates a TenantLock wrapping the given Redis client.
// ttl bounds how long a crashed holder can block others; wait bounds how long
// a caller retries before giving up.
func NewTenantLock(client *redis.Client, ttl, wait time.Duration) *TenantLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	if wait <= 0 {
		wait = defaultLockWait
	}
	return &TenantLock{client: client, ttl: ttl, wait: wait, retry: defaultRetryPeriod}
}

// WithTenantLock acquires the tenant's lock, runs fn and releases the lock.
func (l *TenantLock) WithTenantLock(ctx context.Context, tenantID string, fn func(ctx context.Context) error) error {
	key := lockKey(tenantID)
	token := uuid.NewString()

	if err := l.acquire(ctx, key, token); err != nil {
		return err
	}
	defer func() {
		// Release on a fresh context so a cancelled request still frees the lock.
		relCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = releaseScript.Run(relCtx, l.client, []string{key}, token).Err()
	}()

	return fn(ctx)
}

func (l *TenantLock) acquire(ctx context.Context, key, token string) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(waitCtx, key, token, l.ttl).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: tenant lock: %w", domain.ErrUnavailable, err)
		}
		if ok {
			return nil
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return ErrLockTimeout
		case <-ticker.C:
		}
	}
}

func lockKey(tenantID string) string {
	return fmt.Sprintf("lock:tenant:%s", tenantID)
}
