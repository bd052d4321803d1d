package storage

import (
	"context"
	"errors"
	"strings"
)

// ErrNoClient is returned by Bridge implementations when called without a
// client id
var ErrNoClient = errors.New("storage: no client id")

// Bridge is a key/value store partitioned by browser client. Each client sees
// only its own keys, the way a browser sees only its own localStorage.
type Bridge interface {
	// GetItem returns the stored value and whether the key exists
	GetItem(ctx context.Context, clientID, key string) (string, bool, error)
	SetItem(ctx context.Context, clientID, key, value string) error
	RemoveItem(ctx context.Context, clientID, key string) error
	// Clear removes every key of the client
	Clear(ctx context.Context, clientID string) error
}

type clientIDKey struct{}

// WithClientID binds the calling browser client to ctx
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, clientIDKey{}, clientID)
}

// ClientIDFromContext returns the client bound to ctx. ok is false until the
// client has been identified.
func ClientIDFromContext(ctx context.Context) (string, bool) {
	id, _ := ctx.Value(clientIDKey{}).(string)
	id = strings.TrimSpace(id)
	return id, id != ""
}
