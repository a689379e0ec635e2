package lockout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"netra/internal/ratelimit/models"
	"netra/pkg/requestcontext"
)

const (
	keyPrefix          = "lockout:"
	fieldFailureCount  = "failure_count"
	fieldLastFailureAt = "last_failure_at"
	fieldLockedUntil   = "locked_until"
)

// RedisStore keeps lockout records as Redis hashes so several instances share
// counters. The window is enforced with key expiry.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*models.Lockout, error) {
	fields, err := s.client.HGetAll(ctx, keyPrefix+key).Result()
	if err != nil {
		return nil, fmt.Errorf("get lockout: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return parseLockout(key, fields)
}

// RecordFailure increments the counter atomically and refreshes the window.
// A locked key keeps its longer TTL.
func (s *RedisStore) RecordFailure(ctx context.Context, key string, window time.Duration) (*models.Lockout, error) {
	now := requestcontext.Now(ctx)
	rk := keyPrefix + key

	var all *redis.MapStringStringCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, rk, fieldFailureCount, 1)
		pipe.HSet(ctx, rk, fieldLastFailureAt, now.UnixNano())
		pipe.ExpireGT(ctx, rk, window)
		pipe.ExpireNX(ctx, rk, window)
		all = pipe.HGetAll(ctx, rk)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record lockout failure: %w", err)
	}
	return parseLockout(key, all.Val())
}

func (s *RedisStore) Update(ctx context.Context, record *models.Lockout, ttl time.Duration) error {
	if record == nil {
		return errors.New("lockout record is required")
	}
	rk := keyPrefix + record.Identifier
	lockedUntil := int64(0)
	if record.LockedUntil != nil {
		lockedUntil = record.LockedUntil.UnixNano()
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, rk,
			fieldFailureCount, record.FailureCount,
			fieldLastFailureAt, record.LastFailureAt.UnixNano(),
			fieldLockedUntil, lockedUntil,
		)
		pipe.Expire(ctx, rk, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("update lockout: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("clear lockout: %w", err)
	}
	return nil
}

func parseLockout(key string, fields map[string]string) (*models.Lockout, error) {
	rec, err := models.NewLockout(key)
	if err != nil {
		return nil, err
	}
	if v, ok := fields[fieldFailureCount]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", fieldFailureCount, err)
		}
		rec.FailureCount = n
	}
	if v, ok := fields[fieldLastFailureAt]; ok {
		ns, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", fieldLastFailureAt, err)
		}
		rec.LastFailureAt = time.Unix(0, ns).UTC()
	}
	if v, ok := fields[fieldLockedUntil]; ok {
		ns, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", fieldLockedUntil, err)
		}
		if ns > 0 {
			until := time.Unix(0, ns).UTC()
			rec.LockedUntil = &until
		}
	}
	return rec, nil
}
