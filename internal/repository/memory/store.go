package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"parley/internal/domain"
)

// DocumentStore is an in-memory implementation of repositories.DocumentStore
// for tests and local development. Documents are held as marshaled JSON so
// reads go through the same encode/decode round-trip as the S3 store.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewDocumentStore creates an empty in-memory document store
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs: make(map[string][]byte),
	}
}

func (s *DocumentStore) Get(ctx context.Context, key string, dest any) error {
	s.mu.RLock()
	body, ok := s.docs[key]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("get %s: %w", key, domain.ErrNotFound)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode object %s: %w", key, err)
	}

	return nil
}

func (s *DocumentStore) Put(ctx context.Context, key string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode object %s: %w", key, err)
	}

	s.mu.Lock()
	s.docs[key] = body
	s.mu.Unlock()

	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.docs, key)
	s.mu.Unlock()

	return nil
}

func (s *DocumentStore) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	var keys []string
	for key := range s.docs {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	s.mu.RUnlock()

	sort.Strings(keys)
	return keys, nil
}
