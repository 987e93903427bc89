package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openshelf/catalog-api/internal/core/domain"
	"github.com/openshelf/catalog-api/internal/core/ports"
)

const scanBatch = 256

// Store implements ports.KVStore on Redis. Versions are content hashes, so
// compare-and-swap is WATCH + GET + compare + MULTI/SET/EXEC.
type Store struct {
	client redis.UniversalClient
}

// NewStore wraps the given Redis client.
func NewStore(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

// Version returns the version tag of a stored value.
func Version(value []byte) string {
	sum := sha256.Sum256(value)
	return hex.EncodeToString(sum[:])
}

func (s *Store) Get(ctx context.Context, key string) (ports.Entry, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.Entry{}, domain.ErrKeyNotFound
	}
	if err != nil {
		return ports.Entry{}, fmt.Errorf("redis get %s: %w", key, err)
	}
	return ports.Entry{Value: b, Version: Version(b)}, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Store) CompareAndSwap(ctx context.Context, key string, value []byte, expected string) (string, error) {
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			if expected != "" {
				return domain.ErrVersionMismatch
			}
		case err != nil:
			return err
		default:
			if Version(current) != expected {
				return domain.ErrVersionMismatch
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, value, 0)
			return nil
		})
		return err
	}

	err := s.client.Watch(ctx, txf, key)
	switch {
	case err == nil:
		return Version(value), nil
	case errors.Is(err, domain.ErrVersionMismatch), errors.Is(err, redis.TxFailedErr):
		return "", domain.ErrVersionMismatch
	default:
		return "", fmt.Errorf("redis cas %s: %w", key, err)
	}
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := s.client.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan %s*: %w", prefix, err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
