package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/foliokit/foliocache/app/content"
)

var _ Store = (*RedisStore)(nil)

// RedisStore keeps the cache document in Redis. No TTL: the document lives
// until the next rebuild replaces it.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreWithClient wraps an existing client; used by tests.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context) (*content.CacheDocument, error) {
	data, err := s.client.Get(ctx, CacheKey).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache document: %w", err)
	}

	var doc content.CacheDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("stored cache document is malformed: %w", err)
	}

	return &doc, nil
}

func (s *RedisStore) Put(ctx context.Context, doc *content.CacheDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize cache document: %w", err)
	}

	if err := s.client.Set(ctx, CacheKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write cache document: %w", err)
	}

	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
