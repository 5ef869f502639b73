package savestatus

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	fieldSavedAt  = "saved_at"
	fieldFailedAt = "failed_at"
	fieldError    = "last_error"
	fieldFailures = "failures"
)

// RedisTracker keeps one hash per brief so every API instance sees the same indicator.
type RedisTracker struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ Tracker = &RedisTracker{}

func NewRedisTracker(rdb *redis.Client, ttl time.Duration) *RedisTracker {
	return &RedisTracker{rdb: rdb, ttl: ttl}
}

func key(id uuid.UUID) string {
	return fmt.Sprintf("briefbuilder:savestatus:%s", id)
}

func (t *RedisTracker) MarkSaved(ctx context.Context, briefID uuid.UUID, at time.Time) error {
	k := key(briefID)
	_, err := t.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k, fieldSavedAt, at.UTC().Format(time.RFC3339Nano), fieldFailures, 0)
		pipe.Expire(ctx, k, t.ttl)
		return nil
	})
	return err
}

func (t *RedisTracker) MarkFailed(ctx context.Context, briefID uuid.UUID, at time.Time, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	k := key(briefID)
	_, err := t.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k, fieldFailedAt, at.UTC().Format(time.RFC3339Nano), fieldError, msg)
		pipe.HIncrBy(ctx, k, fieldFailures, 1)
		pipe.Expire(ctx, k, t.ttl)
		return nil
	})
	return err
}

func (t *RedisTracker) Get(ctx context.Context, briefID uuid.UUID) (Status, error) {
	values, err := t.rdb.HGetAll(ctx, key(briefID)).Result()
	if err != nil {
		return Status{}, err
	}
	return fromHash(values), nil
}

func fromHash(values map[string]string) Status {
	var s Status
	if v, ok := values[fieldSavedAt]; ok {
		if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			s.LastSavedAt = &ts
		}
	}
	if v, ok := values[fieldFailedAt]; ok {
		if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			s.LastFailureAt = &ts
		}
	}
	s.LastError = values[fieldError]
	if v, ok := values[fieldFailures]; ok {
		s.FailuresSinceSave, _ = strconv.Atoi(v)
	}
	return s
}
