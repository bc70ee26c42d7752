package redis

import (
	"context"
	"errors"
	"os"
	"slices"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/sohamroyc/Api-directory/internal/store"
)

// newTestKV connects to APIDIR_TEST_REDIS_ADDR and skips when unset.
// Database 15 is flushed before and after the test.
func newTestKV(t *testing.T) *KV {
	t.Helper()
	addr := os.Getenv("APIDIR_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("APIDIR_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx := context.Background()
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("FlushDB() error = %v", err)
	}
	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})
	return NewKV(client)
}

func TestKV_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)

	if err := kv.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if _, err := kv.Get(ctx, store.KeyListings); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := kv.Set(ctx, store.KeyListings, []byte(`[]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := kv.Get(ctx, store.KeyListings)
	if err != nil || string(got) != `[]` {
		t.Fatalf("Get() = %s, %v", got, err)
	}

	keys, err := kv.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if !slices.Contains(keys, store.KeyListings) {
		t.Errorf("Keys() = %v, want %s", keys, store.KeyListings)
	}

	if err := kv.Remove(ctx, store.KeyListings); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := kv.Remove(ctx, store.KeyListings); err != nil {
		t.Fatalf("Remove(absent) error = %v", err)
	}
	if _, err := kv.Get(ctx, store.KeyListings); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get(removed) error = %v, want ErrNotFound", err)
	}
}
