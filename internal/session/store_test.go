package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/rmarchan/cine-gestion/internal/utils"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewStore(rdb, 24), mr
}

func TestSessionRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	ident := utils.Identity{ID: 9, Username: "carlos", Role: "user"}

	id, err := s.Create(ctx, ident)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(id) != 64 {
		t.Fatalf("expected 64-char session id, got %d chars", len(id))
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != ident {
		t.Fatalf("identity mismatch: got %+v want %+v", got, ident)
	}
}

func TestSessionExpiry(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, utils.Identity{ID: 1, Username: "ana", Role: "admin"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	mr.FastForward(25 * time.Hour)

	if _, err := s.Get(ctx, id); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession after expiry, got %v", err)
	}
}

func TestSessionDestroy(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, utils.Identity{ID: 1, Username: "ana", Role: "user"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Destroy(ctx, id); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, err := s.Get(ctx, id); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession after destroy, got %v", err)
	}

	// destroying an unknown id is a no-op
	if err := s.Destroy(ctx, "does-not-exist"); err != nil {
		t.Fatalf("destroy unknown: %v", err)
	}
}

func TestSessionUnknownID(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.Get(context.Background(), "nope"); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestSessionNilClient(t *testing.T) {
	s := NewStore(nil, 24)
	ctx := context.Background()

	if _, err := s.Create(ctx, utils.Identity{ID: 1}); err == nil {
		t.Fatal("expected error creating session without redis")
	}
	if _, err := s.Get(ctx, "anything"); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if err := s.Destroy(ctx, "anything"); err != nil {
		t.Fatalf("destroy should be a no-op, got %v", err)
	}
}
