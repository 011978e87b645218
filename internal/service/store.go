package service

import (
	"context"
	"encoding/json"
	"fmt"
	"postboard/internal/adapter/out/storage"
	"sync"
)

//go:generate mockgen -source=store.go -destination=./store_mock.go -package=service
type DocumentStore interface {
	// Load returns nil without error when the collection was never saved.
	Load(ctx context.Context, c storage.Collection) ([]byte, error)
	Save(ctx context.Context, c storage.Collection, doc []byte) error
}

// Collection is a typed view over one document of a DocumentStore. Update
// runs the whole load-mutate-save cycle under the collection's lock, so two
// writers in this process never overwrite each other's changes.
type Collection[T any] struct {
	mu    sync.Mutex
	store DocumentStore
	name  storage.Collection
	empty func() T
}

func NewCollection[T any](store DocumentStore, name storage.Collection, empty func() T) *Collection[T] {
	return &Collection[T]{
		store: store,
		name:  name,
		empty: empty,
	}
}

func (c *Collection[T]) Name() storage.Collection {
	return c.name
}

func (c *Collection[T]) Load(ctx context.Context) (T, error) {
	out := c.empty()

	doc, err := c.store.Load(ctx, c.name)
	if err != nil {
		return out, fmt.Errorf("load %s: %w", c.name, err)
	}
	if len(doc) == 0 {
		return out, nil
	}

	if err := json.Unmarshal(doc, &out); err != nil {
		return c.empty(), fmt.Errorf("decode %s: %w: %v", c.name, ErrStorageCorrupt, err)
	}
	return out, nil
}

// Update applies mutate to the current document and saves the result. If
// mutate fails nothing is written and its error is returned as is.
func (c *Collection[T]) Update(ctx context.Context, mutate func(doc *T) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.Load(ctx)
	if err != nil {
		return err
	}

	if err := mutate(&doc); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w: %v", c.name, ErrStorageUnavailable, err)
	}

	if err := c.store.Save(ctx, c.name, raw); err != nil {
		return fmt.Errorf("save %s: %w", c.name, err)
	}
	return nil
}
