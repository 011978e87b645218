package inmemory

import (
	"bytes"
	"context"
	"fmt"
	"postboard/internal/adapter/out/storage"
	"sync"
)

// DocumentStore keeps every collection in process memory.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[storage.Collection][]byte
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs: make(map[storage.Collection][]byte),
	}
}

func (s *DocumentStore) Load(_ context.Context, c storage.Collection) ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", storage.ErrBadCollection, c)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[c]
	if !ok {
		return nil, nil
	}
	return bytes.Clone(doc), nil
}

func (s *DocumentStore) Save(_ context.Context, c storage.Collection, doc []byte) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", storage.ErrBadCollection, c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[c] = bytes.Clone(doc)
	return nil
}
