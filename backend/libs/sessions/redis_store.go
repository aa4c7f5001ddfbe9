package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"powercalc/backend/libs/models"
)

// RedisStore shares sessions between calculator-web replicas.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore returns a redis-backed store; entries outlive their access
// token by ttl so the refresh token stays usable.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(key string) string {
	return "powercalc:sessions:" + key
}

// Load returns the stored session or ErrNotFound.
func (s *RedisStore) Load(ctx context.Context, key string) (*models.Session, error) {
	raw, err := s.client.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Save stores session under key.
func (s *RedisStore) Save(ctx context.Context, key string, session *models.Session) error {
	if session == nil {
		return s.Delete(ctx, key)
	}
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKey(key), data, s.ttl).Err()
}

// Delete removes the stored session.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, redisKey(key)).Err()
}
