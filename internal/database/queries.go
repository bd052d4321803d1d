package database

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries holds the statements used against client_storage
type Queries struct {
	db DBTX
}

// New binds the queries to a connection or transaction
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

const getClientItem = `SELECT value FROM client_storage WHERE client_id = $1 AND key = $2`

// GetClientItem returns sql.ErrNoRows when the key is absent
func (q *Queries) GetClientItem(ctx context.Context, clientID, key string) (string, error) {
	var value string
	err := q.db.QueryRowContext(ctx, getClientItem, clientID, key).Scan(&value)
	return value, err
}

const upsertClientItem = `
INSERT INTO client_storage (client_id, key, value, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (client_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

func (q *Queries) UpsertClientItem(ctx context.Context, clientID, key, value string) error {
	_, err := q.db.ExecContext(ctx, upsertClientItem, clientID, key, value)
	return err
}

const deleteClientItem = `DELETE FROM client_storage WHERE client_id = $1 AND key = $2`

func (q *Queries) DeleteClientItem(ctx context.Context, clientID, key string) error {
	_, err := q.db.ExecContext(ctx, deleteClientItem, clientID, key)
	return err
}

const deleteClientItems = `DELETE FROM client_storage WHERE client_id = $1`

func (q *Queries) DeleteClientItems(ctx context.Context, clientID string) error {
	_, err := q.db.ExecContext(ctx, deleteClientItems, clientID)
	return err
}
