// Package store holds the Persisted Store: a flat key-value byte store whose
// values are JSON documents, plus typed accessors for the collections the
// application keeps in it.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KV.Get when the key is absent.
// Absence is distinct from an empty collection.
var ErrNotFound = errors.New("key not found")

// KV is the raw persisted store contract.
//
// There are no transactions and no atomicity across keys: a failure between
// two related writes can leave them inconsistent.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// KeyLister is implemented by backends that can enumerate their keys.
type KeyLister interface {
	Keys(ctx context.Context) ([]string, error)
}

// Pinger is implemented by backends that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}
