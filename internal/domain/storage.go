package domain

import (
	"context"
	"errors"
)

// ErrNotFound indicates that the requested key has no persisted value.
var ErrNotFound = errors.New("storage: key not found")

// Store is the persistence port: a flat key-value space of JSON documents
// surviving process restarts. Get returns ErrNotFound for an absent key.
// The three logical keys are "user" (session), "registeredUsers"
// (credential store) and "posts" (feed); no cross-key transactional
// guarantee is provided.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
