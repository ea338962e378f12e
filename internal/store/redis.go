package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

const redisKeyPrefix = "conversation:"

// redisClient is the subset of the redis wrapper the store needs.
type redisClient interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Keys(ctx context.Context, pattern string) ([]string, error)
}

// RedisStore keeps conversation records as JSON values. References are the
// full redis keys.
type RedisStore struct {
	client redisClient
	ttl    time.Duration
	isMiss func(error) bool
}

// NewRedisStore wraps the client; records expire after ttl (0 keeps them
// forever).
func NewRedisStore(client redisClient, ttl time.Duration, isMiss func(error) bool) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, isMiss: isMiss}
}

func (s *RedisStore) Save(ctx context.Context, rec Record) (string, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	key := redisKeyPrefix + rec.ConversationID + ":" + rec.Timestamp
	if err := s.client.Set(ctx, key, data, s.ttl); err != nil {
		return "", fmt.Errorf("store record: %w", err)
	}
	return key, nil
}

func (s *RedisStore) Load(ctx context.Context, ref string) (Record, error) {
	if !strings.HasPrefix(ref, redisKeyPrefix) {
		return Record{}, ErrNotFound
	}
	data, err := s.client.Get(ctx, ref)
	if err != nil {
		if s.isMiss != nil && s.isMiss(err) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("fetch record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	keys, err := s.client.Keys(ctx, redisKeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}
