package session

import (
    "context"
    "errors"
    "time"

    redis "github.com/redis/go-redis/v9"
)

// Redis implements TokenStore over a Redis instance. TTL handling is left
// to Redis key expiry.
type Redis struct {
    rdb *redis.Client
}

func NewRedis(url string) (*Redis, error) {
    opt, err := redis.ParseURL(url)
    if err != nil {
        return nil, err
    }
    return &Redis{rdb: redis.NewClient(opt)}, nil
}

func (s *Redis) key(token string) string { return "session:" + token }

func (s *Redis) Resolve(ctx context.Context, token string) (string, error) {
    v, err := s.rdb.Get(ctx, s.key(token)).Result()
    if errors.Is(err, redis.Nil) {
        return "", ErrTokenNotFound
    }
    if err != nil {
        return "", err
    }
    return v, nil
}

func (s *Redis) Put(ctx context.Context, token, userID string, ttl time.Duration) error {
    return s.rdb.Set(ctx, s.key(token), userID, ttl).Err()
}

func (s *Redis) Revoke(ctx context.Context, token string) error {
    return s.rdb.Del(ctx, s.key(token)).Err()
}

func (s *Redis) Close() error { return s.rdb.Close() }
