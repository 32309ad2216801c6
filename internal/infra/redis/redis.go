package redis

import (
	"fmt"

	radix "github.com/mediocregopher/radix/v3"

	"github.com/SahilSagvekar/vedessa-sub001/internal/config"
)

// Connect opens a radix pool. Built once in main and handed to
// whoever needs it.
func Connect(cfg *config.RedisConfig) (radix.Client, error) {
	size := cfg.PoolSize
	if size <= 0 {
		size = 10
	}
	pool, err := radix.NewPool("tcp", cfg.Addr, size)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return pool, nil
}
