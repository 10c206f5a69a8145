package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Keys under which app state is persisted.
const (
	KeyWorkoutPrograms = "@workout_programs"
	KeyActiveProgram   = "@active_program"
	KeyUserRoutines    = "@user_routines"
	KeyThumbnailIndex  = "THUMBNAIL_CACHE_V2"
)

// KVStore is the persistent key-value store behind the services. Values are
// opaque bytes (JSON in practice). Get returns ErrNotFound for a missing key,
// Delete of a missing key is not an error.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// GetJSON loads key and decodes it into dst.
func GetJSON(ctx context.Context, s KVStore, key string, dst any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s KVStore, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// IsNotFound reports whether err means the key does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
