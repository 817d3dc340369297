package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if store.AccessToken() != "" {
		t.Fatal("fresh store must be logged out")
	}

	if err := store.Set(Tokens{Access: "acc-1", Refresh: "ref-1"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if store.AccessToken() != "acc-1" || store.RefreshToken() != "ref-1" {
		t.Fatal("expected stored token pair")
	}

	// A new store over the same path sees the persisted pair.
	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.AccessToken() != "acc-1" {
		t.Fatal("expected durable access token")
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if store.AccessToken() != "" || store.RefreshToken() != "" {
		t.Fatal("expected both tokens removed")
	}
	// Clearing twice is fine.
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestFileStore_PartialSetKeepsOtherToken(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := store.Set(Tokens{Access: "acc-1", Refresh: "ref-1"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(Tokens{Access: "acc-2"}); err != nil {
		t.Fatalf("partial set: %v", err)
	}
	if store.AccessToken() != "acc-2" || store.RefreshToken() != "ref-1" {
		t.Fatal("partial set must leave the other token in place")
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Set(Tokens{Access: "a", Refresh: "r"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if store.AccessToken() != "a" || store.RefreshToken() != "r" {
		t.Fatal("expected stored pair")
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if store.AccessToken() != "" {
		t.Fatal("expected cleared store")
	}
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestInspect(t *testing.T) {
	store := NewMemoryStore()

	if _, err := Inspect(store); err != ErrNoToken {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	store.Set(Tokens{Access: signedToken(t, jwt.MapClaims{
		"sub": "42",
		"exp": exp.Unix(),
	})})

	info, err := Inspect(store)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if info.Subject != "42" {
		t.Fatalf("expected subject 42, got %q", info.Subject)
	}
	if !info.ExpiresAt.Equal(exp) {
		t.Fatalf("expected expiry %v, got %v", exp, info.ExpiresAt)
	}
}

func TestExpired(t *testing.T) {
	now := time.Now()
	store := NewMemoryStore()

	// No token, garbage token and token without exp all defer to the server.
	if Expired(store, now) {
		t.Fatal("empty store is not expired")
	}
	store.Set(Tokens{Access: "not-a-jwt"})
	if Expired(store, now) {
		t.Fatal("garbage token is left for the server to reject")
	}
	store.Clear()
	store.Set(Tokens{Access: signedToken(t, jwt.MapClaims{"sub": "42"})})
	if Expired(store, now) {
		t.Fatal("token without exp is not considered expired")
	}

	store.Clear()
	store.Set(Tokens{Access: signedToken(t, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()})})
	if !Expired(store, now) {
		t.Fatal("past-exp token must report expired")
	}

	store.Clear()
	store.Set(Tokens{Access: signedToken(t, jwt.MapClaims{"exp": now.Add(time.Minute).Unix()})})
	if Expired(store, now) {
		t.Fatal("future-exp token must not report expired")
	}
}
