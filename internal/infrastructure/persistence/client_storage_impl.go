package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gitactdash/internal/database"
	"gitactdash/internal/domain/storage"
)

// ClientStorageImpl implements storage.Bridge on the client_storage table
type ClientStorageImpl struct {
	db *database.DB
}

// NewClientStorage creates a PostgreSQL-backed storage bridge
func NewClientStorage(db *database.DB) storage.Bridge {
	return &ClientStorageImpl{db: db}
}

// GetItem retrieves a value by key
func (s *ClientStorageImpl) GetItem(ctx context.Context, clientID, key string) (string, bool, error) {
	if clientID == "" {
		return "", false, storage.ErrNoClient
	}
	queries := database.New(s.db.GetConnection())

	value, err := queries.GetClientItem(ctx, clientID, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get item: %w", err)
	}
	return value, true, nil
}

// SetItem creates or replaces a value
func (s *ClientStorageImpl) SetItem(ctx context.Context, clientID, key, value string) error {
	if clientID == "" {
		return storage.ErrNoClient
	}
	queries := database.New(s.db.GetConnection())

	if err := queries.UpsertClientItem(ctx, clientID, key, value); err != nil {
		return fmt.Errorf("failed to set item: %w", err)
	}
	return nil
}

// RemoveItem deletes a key. Removing a missing key is not an error.
func (s *ClientStorageImpl) RemoveItem(ctx context.Context, clientID, key string) error {
	if clientID == "" {
		return storage.ErrNoClient
	}
	queries := database.New(s.db.GetConnection())

	if err := queries.DeleteClientItem(ctx, clientID, key); err != nil {
		return fmt.Errorf("failed to remove item: %w", err)
	}
	return nil
}

// Clear deletes every key of the client
func (s *ClientStorageImpl) Clear(ctx context.Context, clientID string) error {
	if clientID == "" {
		return storage.ErrNoClient
	}
	queries := database.New(s.db.GetConnection())

	if err := queries.DeleteClientItems(ctx, clientID); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}
	return nil
}
