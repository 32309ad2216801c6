package service

import (
	"context"
	"time"

	radix "github.com/mediocregopher/radix/v3"
)

// redisLocker implements Locker with SET NX EX; the TTL caps how long
// a crashed settlement can hold the key.
type redisLocker struct {
	redis radix.Client
}

// NewRedisLocker builds a redis-backed settlement locker.
func NewRedisLocker(client radix.Client) Locker {
	return &redisLocker{redis: client}
}

func (l *redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	seconds := int64(ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	var resp string
	if err := l.redis.Do(radix.FlatCmd(&resp, "SET", key, 1, "NX", "EX", seconds)); err != nil {
		return false, err
	}
	return resp == "OK", nil
}

func (l *redisLocker) Release(ctx context.Context, key string) error {
	return l.redis.Do(radix.Cmd(nil, "DEL", key))
}
