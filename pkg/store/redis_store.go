package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
)

type redisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore keeps one string key per leaf, named prefix + ":" + path,
// holding the JSON field map. Subtree reads scan by key pattern.
func NewRedisStore(rdb *redis.Client, prefix string) Store {
	if prefix == "" {
		prefix = "snacktrack"
	}
	return &redisStore{rdb: rdb, prefix: prefix}
}

func (s *redisStore) key(path string) string {
	return s.prefix + ":" + path
}

func (s *redisStore) Get(ctx context.Context, path string) (*Snapshot, error) {
	p, err := CleanPath(path)
	if err != nil {
		return nil, err
	}

	keys, err := s.scan(ctx, s.key(p)+"/*")
	if err != nil {
		return nil, err
	}
	keys = append(keys, s.key(p))

	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	leaves := make(map[string]Fields, len(keys))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var f Fields
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			return nil, fmt.Errorf("decode store key %s: %w", keys[i], err)
		}
		leaves[strings.TrimPrefix(keys[i], s.prefix+":")] = f
	}
	return buildSnapshot(p, leaves), nil
}

func (s *redisStore) Set(ctx context.Context, path string, fields Fields) error {
	p, err := CleanPath(path)
	if err != nil {
		return err
	}
	value, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	stale, err := s.scan(ctx, s.key(p)+"/*")
	if err != nil {
		return err
	}
	for parent := parentOf(p); parent != ""; parent = parentOf(parent) {
		stale = append(stale, s.key(parent))
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(stale) > 0 {
			pipe.Del(ctx, stale...)
		}
		if len(fields) == 0 {
			pipe.Del(ctx, s.key(p))
			return nil
		}
		pipe.Set(ctx, s.key(p), value, 0)
		return nil
	})
	return err
}

func (s *redisStore) Push(ctx context.Context, parent string) (string, error) {
	if _, err := CleanPath(parent); err != nil {
		return "", err
	}
	return newKey()
}

func (s *redisStore) scan(ctx context.Context, match string) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := s.rdb.Scan(ctx, cursor, match, 200).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}
