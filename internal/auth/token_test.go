package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T, static []string) (*TokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTokenStore(client, time.Hour, static), mr
}

func TestIssueValidateRevoke(t *testing.T) {
	store, _ := newTestStore(t, nil)
	ctx := context.Background()

	token, err := store.Issue(ctx, "dashboard")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	subject, err := store.Validate(ctx, token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if subject != "dashboard" {
		t.Fatalf("subject = %q, want dashboard", subject)
	}

	if err := store.Revoke(ctx, token); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := store.Validate(ctx, token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid after revoke, got %v", err)
	}
}

func TestValidateStaticToken(t *testing.T) {
	store, _ := newTestStore(t, []string{"svc-token-1"})

	subject, err := store.Validate(context.Background(), "svc-token-1")
	if err != nil {
		t.Fatalf("validate static: %v", err)
	}
	if subject != "service" {
		t.Fatalf("subject = %q, want service", subject)
	}
}

func TestValidateRejectsUnknownToken(t *testing.T) {
	store, _ := newTestStore(t, nil)

	if _, err := store.Validate(context.Background(), "not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := store.Validate(context.Background(), ""); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for empty token, got %v", err)
	}
}

func TestTokenExpiry(t *testing.T) {
	store, mr := newTestStore(t, nil)
	ctx := context.Background()

	token, err := store.Issue(ctx, "dashboard")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	mr.FastForward(2 * time.Hour)

	if _, err := store.Validate(ctx, token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid after expiry, got %v", err)
	}
}

func TestRawTokenNotStoredInRedis(t *testing.T) {
	store, mr := newTestStore(t, nil)

	token, err := store.Issue(context.Background(), "dashboard")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	for _, key := range mr.Keys() {
		if key == "auth:token:"+token {
			t.Fatal("raw token leaked into redis key")
		}
	}
}
