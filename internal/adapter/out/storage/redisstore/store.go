package redisstore

import (
	"context"
	"errors"
	"fmt"
	"postboard/internal/adapter/out/storage"
	"time"

	"github.com/go-redis/redis/v8"
)

const DefaultKeyPrefix = "postboard:"

// Client is the part of *redis.Client the store needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// DocumentStore keeps each collection as a single string key. SET replaces
// the value atomically.
type DocumentStore struct {
	client Client
	prefix string
}

func NewDocumentStore(client Client, prefix string) *DocumentStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &DocumentStore{client: client, prefix: prefix}
}

func (s *DocumentStore) Key(c storage.Collection) string {
	return s.prefix + string(c)
}

func (s *DocumentStore) Load(ctx context.Context, c storage.Collection) ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", storage.ErrBadCollection, c)
	}

	doc, err := s.client.Get(ctx, s.Key(c)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get %s: %v", storage.ErrCorrupt, c, err)
	}
	return doc, nil
}

func (s *DocumentStore) Save(ctx context.Context, c storage.Collection, doc []byte) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", storage.ErrBadCollection, c)
	}

	if err := s.client.Set(ctx, s.Key(c), doc, 0).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", storage.ErrUnavailable, c, err)
	}
	return nil
}
