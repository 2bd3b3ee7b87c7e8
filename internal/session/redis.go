package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/justinabrahms/checkers/internal/checkers"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each snapshot under its own key with a sliding TTL: both
// reads and writes push the expiry back.
type RedisStore struct {
	rdb    *redis.Client
	codec  Codec
	prefix string
	ttl    time.Duration
}

func NewRedisStore(rdb *redis.Client, codec Codec, prefix string, ttl time.Duration) *RedisStore {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &RedisStore{rdb: rdb, codec: codec, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(id string) string { return s.prefix + strings.TrimSpace(id) }

func (s *RedisStore) Get(ctx context.Context, id string) (checkers.Snapshot, error) {
	var cmd *redis.StringCmd
	if s.ttl > 0 {
		cmd = s.rdb.GetEx(ctx, s.key(id), s.ttl)
	} else {
		cmd = s.rdb.Get(ctx, s.key(id))
	}
	raw, err := cmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return checkers.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return checkers.Snapshot{}, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	snap, err := s.codec.Decode(raw)
	if err != nil {
		return checkers.Snapshot{}, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return snap, nil
}

func (s *RedisStore) Put(ctx context.Context, id string, snap checkers.Snapshot) error {
	raw, err := s.codec.Encode(snap)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key(id), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, s.key(id)).Err()
}
