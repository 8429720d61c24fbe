package sessionsvc

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/Sajalaxena/edu-Darshi-sub000/core/auth"
)

const sessionKeyPrefix = "admin-session:"

// RedisSession stores one key per session, expiring with the token.
type RedisSession struct {
	redis   *redis.Client
	nowFunc func() time.Time
}

var _ auth.Session = (*RedisSession)(nil)

func NewRedisSession(client *redis.Client) *RedisSession {
	return &RedisSession{redis: client, nowFunc: time.Now}
}

func (s *RedisSession) Start(ctx context.Context, claims *auth.Claims) error {
	ttl := claims.TTL(s.nowFunc())
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	if err := s.redis.Set(ctx, sessionKeyPrefix+claims.Id, claims.Username, ttl).Err(); err != nil {
		return errors.Wrap(err, "storing session")
	}
	return nil
}

func (s *RedisSession) Active(ctx context.Context, id string) (bool, error) {
	n, err := s.redis.Exists(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		return false, errors.Wrap(err, "reading session")
	}
	return n > 0, nil
}

func (s *RedisSession) End(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return nil
}
