package persistence

import (
	"context"
	"sync"

	"gitactdash/internal/domain/storage"
)

// MemoryStorage is an in-process storage.Bridge used when no database is
// configured and in tests
type MemoryStorage struct {
	mu      sync.RWMutex
	clients map[string]map[string]string
}

// NewMemoryStorage creates an empty in-memory bridge
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{clients: make(map[string]map[string]string)}
}

func (s *MemoryStorage) GetItem(ctx context.Context, clientID, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if clientID == "" {
		return "", false, storage.ErrNoClient
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.clients[clientID][key]
	return value, ok, nil
}

func (s *MemoryStorage) SetItem(ctx context.Context, clientID, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if clientID == "" {
		return storage.ErrNoClient
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok := s.clients[clientID]
	if !ok {
		items = make(map[string]string)
		s.clients[clientID] = items
	}
	items[key] = value
	return nil
}

func (s *MemoryStorage) RemoveItem(ctx context.Context, clientID, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if clientID == "" {
		return storage.ErrNoClient
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients[clientID], key)
	return nil
}

func (s *MemoryStorage) Clear(ctx context.Context, clientID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if clientID == "" {
		return storage.ErrNoClient
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, clientID)
	return nil
}
