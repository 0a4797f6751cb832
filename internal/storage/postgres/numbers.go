package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/neonsurge/internal/storage"
)

// NumberRepository stores persisted payloads in the persisted_numbers table.
// It implements storage.KV.
type NumberRepository struct {
	db *pgxpool.Pool
}

// NewNumberRepository creates a NumberRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewNumberRepository(db *pgxpool.Pool) *NumberRepository {
	return &NumberRepository{db: db}
}

// Get returns the payload stored under key.
//
// Postcondition: Returns storage.ErrNotFound when no row exists.
func (r *NumberRepository) Get(ctx context.Context, key string) (string, error) {
	var payload string
	err := r.db.QueryRow(ctx,
		`SELECT payload FROM persisted_numbers WHERE key = $1`,
		key,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("get %q: %w", key, storage.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get %q: %w", key, err)
	}
	return payload, nil
}

// Set upserts payload under key.
//
// Postcondition: Exactly one row exists for key and updated_at is refreshed.
func (r *NumberRepository) Set(ctx context.Context, key, payload string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO persisted_numbers (key, payload, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE
		 SET payload = EXCLUDED.payload, updated_at = NOW()`,
		key, payload,
	)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Delete removes the row for key if present.
func (r *NumberRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM persisted_numbers WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}
