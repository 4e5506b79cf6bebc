// Package locks provides per-schedule mutual exclusion so overlapping
// runner invocations (periodic timer plus a manual trigger) cannot both
// take the fire branch for the same schedule.
package locks

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ScheduleLocker acquires short-lived advisory locks keyed by schedule ID.
type ScheduleLocker struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a ScheduleLocker from a Redis URL. The TTL bounds how long a
// crashed holder can block other invocations.
func New(redisURL string, ttl time.Duration) (*ScheduleLocker, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return &ScheduleLocker{rdb: redis.NewClient(opts), ttl: ttl}, nil
}

func lockKey(scheduleID uint) string {
	return fmt.Sprintf("taskflow:digest:lock:%d", scheduleID)
}

// TryAcquire attempts to take the lock for a schedule. It returns a release
// function on success and acquired=false when another invocation holds it.
func (l *ScheduleLocker) TryAcquire(ctx context.Context, scheduleID uint) (release func(), acquired bool, err error) {
	key := lockKey(scheduleID)
	ok, err := l.rdb.SetNX(ctx, key, "1", l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire schedule lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return func() {
		// Best effort: the TTL cleans up if the delete is lost.
		l.rdb.Del(context.Background(), key)
	}, true, nil
}

// Close closes the Redis client connection.
func (l *ScheduleLocker) Close() error {
	return l.rdb.Close()
}
