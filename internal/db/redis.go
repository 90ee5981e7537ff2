package db

import (
	"context"

	"github.com/MirrorChyan/ota-agent/internal/config"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ota-agent:"

// RedisStore keeps each namespace in one hash.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedis(conf *config.Config) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		DB:       conf.Redis.DB,
		Username: conf.Redis.Username,
		Password: conf.Redis.Password,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		_ = rdb.Close()
		return nil, errors.WithMessage(err, "failed to ping redis")
	}
	return NewRedisWithClient(rdb), nil
}

func NewRedisWithClient(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, namespace, key, def string) (string, error) {
	val, err := s.rdb.HGet(ctx, redisKeyPrefix+namespace, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return def, nil
	case err != nil:
		return def, errors.WithMessagef(err, "failed to read %s/%s", namespace, key)
	}
	return val, nil
}

func (s *RedisStore) Put(ctx context.Context, namespace, key, value string) error {
	if err := s.rdb.HSet(ctx, redisKeyPrefix+namespace, key, value).Err(); err != nil {
		return errors.WithMessagef(err, "failed to write %s/%s", namespace, key)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
