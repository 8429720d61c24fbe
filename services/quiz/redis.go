package quizsvc

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/Sajalaxena/edu-Darshi-sub000/core"
	"github.com/Sajalaxena/edu-Darshi-sub000/core/question"
)

const (
	quizKeyPrefix = "quiz:"
	lockKeyPrefix = "quizlock:"

	// lockTTL bounds how long a crashed holder can block an instance.
	lockTTL = 30 * time.Second
)

// releaseLock deletes the lock only if it still holds our value.
var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore keeps quiz instances in redis so any API replica can answer a submit.
type RedisStore struct {
	redis  *redis.Client
	ttl    time.Duration
	logger core.Logger
}

var _ question.InstanceStore = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, ttl time.Duration, logger core.Logger) *RedisStore {
	return &RedisStore{redis: client, ttl: ttl, logger: logger}
}

func (s *RedisStore) SaveQuiz(ctx context.Context, quiz *question.DailyQuiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return errors.Wrap(err, "marshalling quiz")
	}
	if err := s.redis.Set(ctx, quizKeyPrefix+quiz.ID, data, s.ttl).Err(); err != nil {
		return errors.Wrap(err, "storing quiz")
	}
	return nil
}

func (s *RedisStore) GetQuiz(ctx context.Context, id string) (*question.DailyQuiz, error) {
	data, err := s.redis.Get(ctx, quizKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, question.ErrQuizNotFound
		}
		return nil, errors.Wrap(err, "reading quiz")
	}
	quiz := new(question.DailyQuiz)
	if err := json.Unmarshal(data, quiz); err != nil {
		return nil, errors.Wrap(err, "unmarshalling quiz")
	}
	return quiz, nil
}

func (s *RedisStore) LockQuiz(ctx context.Context, id string) (func(), error) {
	key := lockKeyPrefix + id
	value := uuid.NewString()
	ok, err := s.redis.SetNX(ctx, key, value, lockTTL).Result()
	if err != nil {
		return nil, errors.Wrap(err, "locking quiz")
	}
	if !ok {
		return nil, question.ErrBusy
	}
	return func() {
		if err := releaseLock.Run(context.Background(), s.redis, []string{key}, value).Err(); err != nil {
			s.logger.Warn("releasing quiz lock failed", err)
		}
	}, nil
}
