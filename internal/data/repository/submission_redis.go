package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salon-booking/internal/reservation"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultInFlightTTL = 30 * time.Second

// RedisSubmissionStore shares customer session submission state across server
// instances. The in-flight marker carries its own short TTL so a crashed request
// cannot lock a session forever.
type RedisSubmissionStore struct {
	rdb         *redis.Client
	ttl         time.Duration
	inFlightTTL time.Duration
	prefix      string
	log         *zap.Logger
}

var _ reservation.SubmissionStore = (*RedisSubmissionStore)(nil)

func NewRedisSubmissionStore(rdb *redis.Client, ttl time.Duration, prefix string, log *zap.Logger) *RedisSubmissionStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "submission"
	}
	return &RedisSubmissionStore{
		rdb:         rdb,
		ttl:         ttl,
		inFlightTTL: defaultInFlightTTL,
		prefix:      prefix,
		log:         log.With(zap.String("repository", "submission")),
	}
}

func (s *RedisSubmissionStore) Acquire(ctx context.Context, session string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, s.key("inflight", session), 1, s.inFlightTTL).Result()
	if err != nil {
		s.log.Warn("Failed to acquire submission marker", zap.Error(err))
		return false, fmt.Errorf("acquire submission marker: %w", err)
	}
	return ok, nil
}

func (s *RedisSubmissionStore) Release(ctx context.Context, session string) error {
	if err := s.rdb.Del(ctx, s.key("inflight", session)).Err(); err != nil {
		s.log.Warn("Failed to release submission marker", zap.Error(err))
		return fmt.Errorf("release submission marker: %w", err)
	}
	return nil
}

func (s *RedisSubmissionStore) LastKey(ctx context.Context, session string) (string, error) {
	v, err := s.rdb.Get(ctx, s.key("last", session)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read last submission: %w", err)
	}
	return v, nil
}

func (s *RedisSubmissionStore) Remember(ctx context.Context, session, key string) error {
	if err := s.rdb.Set(ctx, s.key("last", session), key, s.ttl).Err(); err != nil {
		return fmt.Errorf("remember submission: %w", err)
	}
	return nil
}

func (s *RedisSubmissionStore) key(kind, session string) string {
	return s.prefix + ":" + kind + ":" + session
}
