package securestore

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/scorelens/scoreboard-gateway/internal/security"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	masterKey, err := security.GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate master key: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return newRedisStoreWithClient(rdb, "vision-api", masterKey), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t)

	secret := []byte("sk-ant-REDACTED")
	if err := store.Put(ctx, "default", secret); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, "default")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != string(secret) {
		t.Errorf("round trip mismatch: got %q", got)
	}
}

func TestRedisStore_EncryptedAtRest(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	secret := "sk-ant-REDACTED"
	if err := store.Put(ctx, "default", []byte(secret)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	raw, err := mr.Get("securestore:vision-api:default")
	if err != nil {
		t.Fatalf("expected raw entry in redis: %v", err)
	}
	if raw == secret {
		t.Fatal("secret stored in plaintext")
	}
}

func TestRedisStore_GetMissing(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t)

	if _, err := store.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestRedisStore_CorruptPayload(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	mr.Set("securestore:vision-api:default", "not-valid-ciphertext")

	if _, err := store.Get(ctx, "default"); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got: %v", err)
	}
}

func TestRedisStore_DeleteAndExists(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t)

	if err := store.Put(ctx, "default", []byte("sk-ant-REDACTED")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	ok, err := store.Exists(ctx, "default")
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v; want true, nil", ok, err)
	}

	if err := store.Delete(ctx, "default"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	ok, err = store.Exists(ctx, "default")
	if err != nil || ok {
		t.Fatalf("Exists after delete = %v, %v; want false, nil", ok, err)
	}
}

func TestRedisStore_Unavailable(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	mr.Close()

	if err := store.Ping(ctx); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got: %v", err)
	}
	if err := store.Put(ctx, "default", []byte("sk-ant-REDACTED")); err == nil {
		t.Fatal("expected Put to fail with store down")
	}
}
