// Package redis stores keys in Redis under a common prefix.
package redis

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"

	"alcyxob/fitprogram/internal/repository"
)

const DefaultPrefix = "fitprogram::"

type store struct {
	rdb    *redis.Client
	prefix string
}

func NewStore(rdb *redis.Client, prefix string) repository.KVStore {
	return &store{rdb: rdb, prefix: prefix}
}

func (s *store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *store) Set(ctx context.Context, key string, value []byte) error {
	return s.rdb.Set(ctx, s.prefix+key, value, 0).Err()
}

func (s *store) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.prefix+key).Err()
}
