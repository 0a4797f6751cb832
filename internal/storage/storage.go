// Package storage defines the key/value contract shared by the persistence backends.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("storage: key not found")

// KV is a string key/value store.
//
// Implementations must be safe for concurrent use.
type KV interface {
	// Get returns the payload stored under key.
	//
	// Postcondition: Returns ErrNotFound (possibly wrapped) when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	// Set stores payload under key, replacing any previous value.
	Set(ctx context.Context, key, payload string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
