package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"socialnet/internal/domain"
	"socialnet/pkg/logger"
)

// RedisStore keeps each session as a JSON value whose TTL matches the
// session expiry, so Redis evicts stale sessions on its own.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger logger.Logger
	now    func() time.Time
}

func NewRedisStore(client *redis.Client, prefix string, logger logger.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		logger: logger,
		now:    time.Now,
	}
}

func (s *RedisStore) key(id string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, id)
}

func (s *RedisStore) Save(ctx context.Context, sess *domain.Session) error {
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return domain.ErrSessionExpired
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session could not be encoded: %w", err)
	}

	if err := s.client.Set(ctx, s.key(sess.ID), data, ttl).Err(); err != nil {
		s.logger.ErrorContext(ctx, "session could not be saved", map[string]interface{}{"user_id": sess.UserID, "error": err.Error()})
		return fmt.Errorf("session could not be saved: %w", err)
	}

	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("session lookup failed: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("session could not be decoded: %w", err)
	}

	if sess.Expired(s.now()) {
		return nil, domain.ErrSessionExpired
	}

	return &sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("session could not be deleted: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
