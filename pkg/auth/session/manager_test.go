package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mallexplorer/sme-backend/pkg/config"
	"github.com/mallexplorer/sme-backend/pkg/enums"
	"github.com/mallexplorer/sme-backend/pkg/kvstore"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "secret",
		Issuer:                 "mallexplorer",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
}

func newTestManager(t *testing.T) (*Manager, *kvstore.MemoryStore) {
	t.Helper()
	store := kvstore.NewMemory()
	manager, err := NewManager(store, testJWTConfig())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return manager, store
}

func testIdentity() Identity {
	return Identity{
		UserID: "u1",
		Email:  "shopper@example.com",
		Name:   "Shopper",
		Role:   enums.RoleUser,
	}
}

func TestNewManagerValidatesTTL(t *testing.T) {
	store := kvstore.NewMemory()

	cfg := testJWTConfig()
	cfg.RefreshTokenTTLMinutes = 0
	if _, err := NewManager(store, cfg); err == nil {
		t.Fatal("expected error for zero ttl")
	}

	cfg = testJWTConfig()
	cfg.RefreshTokenTTLMinutes = 10
	if _, err := NewManager(store, cfg); err == nil {
		t.Fatal("expected error when refresh ttl does not exceed access ttl")
	}

	if _, err := NewManager(nil, testJWTConfig()); err == nil {
		t.Fatal("expected error for nil store")
	}
}

func TestGenerateAndLookup(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)

	accessID := NewAccessID()
	token, err := manager.Generate(ctx, accessID, testIdentity())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty refresh token")
	}

	record, found, err := manager.Lookup(ctx, accessID)
	if err != nil || !found {
		t.Fatalf("lookup: found=%v err=%v", found, err)
	}
	if record.Identity.Email != "shopper@example.com" {
		t.Fatalf("unexpected identity %+v", record.Identity)
	}
	if record.IsAdmin {
		t.Fatal("plain user session must not be admin")
	}
	if record.RefreshToken != token {
		t.Fatal("stored token mismatch")
	}
}

func TestLookupMalformedRecordIsLoggedOut(t *testing.T) {
	ctx := context.Background()
	manager, store := newTestManager(t)

	accessID := NewAccessID()
	if err := store.Set(ctx, kvstore.SessionKey(accessID), "{corrupt", 0); err != nil {
		t.Fatalf("seed corrupt record: %v", err)
	}

	_, found, err := manager.Lookup(ctx, accessID)
	if err != nil {
		t.Fatalf("malformed record must not error: %v", err)
	}
	if found {
		t.Fatal("malformed record must read as logged out")
	}
}

func TestAdminFlagFollowsRole(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)

	identity := testIdentity()
	identity.Role = enums.RoleAdmin
	accessID := NewAccessID()
	if _, err := manager.Generate(ctx, accessID, identity); err != nil {
		t.Fatalf("generate: %v", err)
	}

	record, _, err := manager.Lookup(ctx, accessID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !record.IsAdmin {
		t.Fatal("admin session must carry the admin flag")
	}
}

func TestRotate(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)

	accessID := NewAccessID()
	token, err := manager.Generate(ctx, accessID, testIdentity())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	newAccessID, newToken, err := manager.Rotate(ctx, accessID, token)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if newAccessID == accessID || newToken == token {
		t.Fatal("rotation must issue fresh credentials")
	}

	if ok, _ := manager.HasSession(ctx, accessID); ok {
		t.Fatal("old session must be invalidated")
	}
	record, found, err := manager.Lookup(ctx, newAccessID)
	if err != nil || !found {
		t.Fatalf("new session lookup: found=%v err=%v", found, err)
	}
	if record.Identity.UserID != "u1" {
		t.Fatal("identity must carry over on rotation")
	}
}

// brokenWriteStore accepts the initial session write, then fails every
// later Set so rotation cannot mint a replacement record.
type brokenWriteStore struct {
	kvstore.Store
	writes int
}

func (s *brokenWriteStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.writes++
	if s.writes > 1 {
		return errors.New("write refused")
	}
	return s.Store.Set(ctx, key, value, ttl)
}

func TestRotateFailsClosed(t *testing.T) {
	ctx := context.Background()
	store := &brokenWriteStore{Store: kvstore.NewMemory()}
	manager, err := NewManager(store, testJWTConfig())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	accessID := NewAccessID()
	token, err := manager.Generate(ctx, accessID, testIdentity())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, _, err := manager.Rotate(ctx, accessID, token); err == nil {
		t.Fatal("expected rotation to fail when the new record cannot be written")
	}

	// The old session must already be revoked: a failed rotation never
	// leaves two refresh tokens live, or even one.
	if ok, _ := manager.HasSession(ctx, accessID); ok {
		t.Fatal("old session must be invalidated even when rotation fails")
	}
}

func TestRotateRejectsWrongToken(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)

	accessID := NewAccessID()
	if _, err := manager.Generate(ctx, accessID, testIdentity()); err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, _, err := manager.Rotate(ctx, accessID, "stolen"); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
	if _, _, err := manager.Rotate(ctx, "missing", "token"); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken for unknown session, got %v", err)
	}
}

func TestRevokeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)

	accessID := NewAccessID()
	if _, err := manager.Generate(ctx, accessID, testIdentity()); err != nil {
		t.Fatalf("generate: %v", err)
	}

	if err := manager.Revoke(ctx, accessID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if ok, _ := manager.HasSession(ctx, accessID); ok {
		t.Fatal("expected session gone after revoke")
	}
	// Second revoke of the same session stays a no-op.
	if err := manager.Revoke(ctx, accessID); err != nil {
		t.Fatalf("repeat revoke: %v", err)
	}
}
