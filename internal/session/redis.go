package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "lexdraft:session:"
	lockPrefix = "lexdraft:lock:session:"
	lockTTL    = 30 * time.Second
)

// RedisConfig configures the Redis session store
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisStore keeps sessions as JSON values with a sliding TTL
type RedisStore struct {
	rdb    *redis.Client
	locker *redislock.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &RedisStore{
		rdb:    rdb,
		locker: redislock.New(rdb),
		ttl:    cfg.TTL,
	}, nil
}

// Get returns the session
func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	val, err := r.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(val, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

// Update performs a read-modify-write holding a per-session lock
func (r *RedisStore) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	lock, err := r.locker.Obtain(ctx, lockPrefix+id, lockTTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), 100),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("session %s is busy: %w", id, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock session: %w", err)
	}
	defer func() {
		_ = lock.Release(context.WithoutCancel(ctx))
	}()

	s, err := r.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		s = &Session{ID: id}
	} else if err != nil {
		return nil, err
	}

	if err := fn(s); err != nil {
		return nil, err
	}
	s.ID = id
	s.UpdatedAt = time.Now()

	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.rdb.Set(ctx, keyPrefix+id, data, r.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return s, nil
}

// Delete removes the session
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
