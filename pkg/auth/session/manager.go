package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mallexplorer/sme-backend/pkg/config"
	"github.com/mallexplorer/sme-backend/pkg/enums"
	"github.com/mallexplorer/sme-backend/pkg/kvstore"
)

const refreshTokenBytes = 32

var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// Identity is the snapshot of who the session belongs to, captured at
// login. Role and admin flag are frozen here; re-login recomputes them.
type Identity struct {
	UserID string     `json:"user_id"`
	Email  string     `json:"email"`
	Name   string     `json:"name"`
	Role   enums.Role `json:"role"`
}

// Record is the durable session payload: identity, admin flag, and the
// refresh token, written as one JSON value so logout clears everything
// in a single delete.
type Record struct {
	Identity     Identity  `json:"identity"`
	IsAdmin      bool      `json:"is_admin"`
	RefreshToken string    `json:"token"`
	CreatedAt    time.Time `json:"created_at"`
}

// Manager handles session creation, lookup, rotation, and revocation on
// top of the durable key-value store.
type Manager struct {
	store kvstore.Store
	ttl   time.Duration
}

// AccessSessionChecker exposes the read-only surface needed by middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// NewManager constructs a session manager backed by the provided store.
func NewManager(store kvstore.Store, cfg config.JWTConfig) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("kv store is required")
	}
	ttl := cfg.RefreshTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("refresh token ttl must be positive")
	}
	accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute
	if ttl <= accessTTL {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}

	return &Manager{store: store, ttl: ttl}, nil
}

// Generate creates a session record for the access ID and returns the
// refresh token.
func (m *Manager) Generate(ctx context.Context, accessID string, identity Identity) (string, error) {
	if strings.TrimSpace(accessID) == "" {
		return "", fmt.Errorf("access id is required")
	}
	token, err := generateRefreshToken()
	if err != nil {
		return "", err
	}
	record := Record{
		Identity:     identity,
		IsAdmin:      identity.Role == enums.RoleAdmin,
		RefreshToken: token,
		CreatedAt:    time.Now().UTC(),
	}
	if err := kvstore.SetJSON(ctx, m.store, kvstore.SessionKey(accessID), record, m.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Lookup loads the session record for the access ID. A missing or
// malformed record reports found=false: the caller treats the session
// as logged out, never as a failure.
func (m *Manager) Lookup(ctx context.Context, accessID string) (*Record, bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return nil, false, nil
	}
	var record Record
	found, err := kvstore.GetJSON(ctx, m.store, kvstore.SessionKey(accessID), &record)
	if err != nil {
		return nil, false, err
	}
	if !found || record.RefreshToken == "" {
		return nil, false, nil
	}
	return &record, true, nil
}

// HasSession reports whether the access ID still has an active session.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	_, found, err := m.Lookup(ctx, accessID)
	return found, err
}

// Rotate validates the provided refresh token, invalidates the prior
// session, and issues a new access ID / refresh token pair carrying the
// same identity.
func (m *Manager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if strings.TrimSpace(oldAccessID) == "" || strings.TrimSpace(provided) == "" {
		return "", "", ErrInvalidRefreshToken
	}

	record, found, err := m.Lookup(ctx, oldAccessID)
	if err != nil {
		return "", "", err
	}
	if !found {
		return "", "", ErrInvalidRefreshToken
	}

	if subtle.ConstantTimeCompare([]byte(record.RefreshToken), []byte(provided)) != 1 {
		return "", "", ErrInvalidRefreshToken
	}

	// Revoke before minting: a half-completed rotation must not leave
	// two live refresh tokens for the same identity. If the mint fails
	// the caller has to log in again, which fails closed.
	if err := m.store.Del(ctx, kvstore.SessionKey(oldAccessID)); err != nil {
		return "", "", err
	}

	newAccessID := NewAccessID()
	newToken, err := m.Generate(ctx, newAccessID, record.Identity)
	if err != nil {
		return "", "", err
	}

	return newAccessID, newToken, nil
}

// Revoke deletes the session record tied to the access identifier.
// Revoking an already-absent session is a no-op.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	return m.store.Del(ctx, kvstore.SessionKey(accessID))
}

// NewAccessID produces a stable identifier used as the JWT jti and the
// session key.
func NewAccessID() string {
	return uuid.NewString()
}

func generateRefreshToken() (string, error) {
	bytes := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
