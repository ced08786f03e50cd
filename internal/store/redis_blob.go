package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisBlob keeps the snapshot under one Redis string key with no expiry.
type RedisBlob struct {
	Client *redis.Client
	Key    string
}

// NewRedisBlob connects and pings before returning.
func NewRedisBlob(addr, password string, dbIndex int, key string) (*RedisBlob, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       dbIndex,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisBlob{Client: client, Key: key}, nil
}

func (r *RedisBlob) Load(ctx context.Context) ([]byte, error) {
	data, err := r.Client.Get(ctx, r.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", r.Key, err)
	}
	return data, nil
}

func (r *RedisBlob) Save(ctx context.Context, data []byte) error {
	if err := r.Client.Set(ctx, r.Key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.Key, err)
	}
	return nil
}

func (r *RedisBlob) Close() error {
	return r.Client.Close()
}
