// Package leveldb stores the KV in an on-disk LevelDB directory, the closest
// analogue to browser local storage for a single-process deployment.
package leveldb

import (
	"context"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	lerrors "github.com/syndtr/goleveldb/leveldb/errors"

	"github.com/sohamroyc/Api-directory/internal/store"
)

// KV is a LevelDB-backed store.
type KV struct {
	db *leveldb.DB
}

// Open opens (or creates) the database at path, recovering it if the
// manifest is corrupted.
func Open(path string) (*KV, error) {
	db, err := leveldb.OpenFile(path, nil)
	if lerrors.IsCorrupted(err) {
		db, err = leveldb.RecoverFile(path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb at %s: %w", path, err)
	}
	return &KV{db: db}, nil
}

func (k *KV) Get(_ context.Context, key string) ([]byte, error) {
	v, err := k.db.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return v, nil
}

func (k *KV) Set(_ context.Context, key string, value []byte) error {
	if err := k.db.Put([]byte(key), value, nil); err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

func (k *KV) Remove(_ context.Context, key string) error {
	if err := k.db.Delete([]byte(key), nil); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close releases the database files.
func (k *KV) Close() error {
	return k.db.Close()
}
