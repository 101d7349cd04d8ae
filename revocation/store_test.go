package revocation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, New(client, "")
}

func TestRevokeAndIsRevoked(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "abc")
	if err != nil || revoked {
		t.Fatalf("expected fresh id not revoked, got %v %v", revoked, err)
	}

	if err := store.Revoke(ctx, "abc", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if !mr.Exists("jr:abc") {
		t.Fatal("expected key with default prefix")
	}
	if ttl := mr.TTL("jr:abc"); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected ttl %v", ttl)
	}

	revoked, err = store.IsRevoked(ctx, "abc")
	if err != nil || !revoked {
		t.Fatalf("expected revoked, got %v %v", revoked, err)
	}

	mr.FastForward(2 * time.Minute)
	revoked, err = store.IsRevoked(ctx, "abc")
	if err != nil || revoked {
		t.Fatalf("expected denylist entry to expire, got %v %v", revoked, err)
	}
}

func TestRevokeInPastIsNoop(t *testing.T) {
	mr, store := newTestStore(t)

	if err := store.Revoke(context.Background(), "old", time.Now().Add(-time.Second)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if mr.Exists("jr:old") {
		t.Fatal("expected no key for already expired token")
	}
}

func TestRestore(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	if err := store.Revoke(ctx, "abc", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if err := store.Restore(ctx, "abc"); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if revoked, _ := store.IsRevoked(ctx, "abc"); revoked {
		t.Fatal("expected restored id to pass")
	}
}

func TestEmptyTokenID(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	if err := store.Revoke(ctx, " ", time.Now().Add(time.Minute)); !errors.Is(err, ErrEmptyTokenID) {
		t.Fatalf("expected ErrEmptyTokenID, got %v", err)
	}
	if _, err := store.IsRevoked(ctx, ""); !errors.Is(err, ErrEmptyTokenID) {
		t.Fatalf("expected ErrEmptyTokenID, got %v", err)
	}
}

func TestBackendFailureWrapped(t *testing.T) {
	mr, store := newTestStore(t)
	mr.Close()

	if _, err := store.IsRevoked(context.Background(), "abc"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
	if err := store.Revoke(context.Background(), "abc", time.Now().Add(time.Minute)); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
}
