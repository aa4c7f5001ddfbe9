package sessions

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"powercalc/backend/libs/models"
	libredis "powercalc/backend/libs/redis"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	key := uuid.NewString()

	if _, err := store.Load(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load on empty store err = %v, want ErrNotFound", err)
	}

	session := &models.Session{AccessToken: "at", RefreshToken: "rt", ExpiresAt: 1900000000, User: &models.User{ID: "u1"}}
	if err := store.Save(ctx, key, session); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx, key)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.AccessToken != "at" || got.User == nil || got.User.ID != "u1" {
		t.Errorf("loaded = %+v", got)
	}

	if _, err := store.Load(ctx, key+"-other"); !errors.Is(err, ErrNotFound) {
		t.Errorf("other key err = %v, want ErrNotFound", err)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after delete err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	exerciseStore(t, store)
	if store.Len() != 0 {
		t.Errorf("Len = %d, want 0", store.Len())
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	if err := store.Save(ctx, "k", &models.Session{AccessToken: "at"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ := store.Load(ctx, "k")
	got.AccessToken = "mutated"

	again, _ := store.Load(ctx, "k")
	if again.AccessToken != "at" {
		t.Errorf("stored session mutated through Load result: %q", again.AccessToken)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("POWERCALC_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("POWERCALC_TEST_REDIS_ADDR not set")
	}
	client, err := libredis.NewClient(context.Background(), libredis.Options{Addr: addr})
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	exerciseStore(t, NewRedisStore(client, time.Minute))
}
