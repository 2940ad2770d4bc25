package onboarding

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/mallexplorer/sme-backend/pkg/errors"
	"github.com/mallexplorer/sme-backend/pkg/kvstore"
	"github.com/google/uuid"
)

// Status reports where a user stands in onboarding.
type Status struct {
	Onboarded   bool       `json:"onboarded"`
	Pending     bool       `json:"pending"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Service maintains the per-user onboarding flags.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*Status, error)
	Start(ctx context.Context, userID uuid.UUID) (*Status, error)
	Complete(ctx context.Context, userID uuid.UUID) (*Status, error)
}

type service struct {
	store kvstore.Store
}

// NewService constructs the onboarding service over the KV store.
func NewService(store kvstore.Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("kv store is required")
	}
	return &service{store: store}, nil
}

// Get reads both flags. A malformed completion value reads as not
// onboarded rather than failing the request.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*Status, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	status := &Status{}

	raw, err := s.store.Get(ctx, kvstore.OnboardedKey(userID.String()))
	if err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read onboarding flag")
	}
	if err == nil && raw != "" {
		status.Onboarded = true
		if at, parseErr := time.Parse(time.RFC3339, raw); parseErr == nil {
			status.CompletedAt = &at
		}
	}

	_, err = s.store.Get(ctx, kvstore.OnboardingPendingKey(userID.String()))
	if err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read pending flag")
	}
	status.Pending = err == nil && !status.Onboarded
	return status, nil
}

// Start marks onboarding as in progress. Starting twice, or after
// completion, is harmless.
func (s *service) Start(ctx context.Context, userID uuid.UUID) (*Status, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	_, err := s.store.SetNX(ctx, kvstore.OnboardingPendingKey(userID.String()), "1", 0)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write pending flag")
	}
	return s.Get(ctx, userID)
}

// Complete sets the completion flag and clears the pending marker.
// Completing an already-onboarded user overwrites the timestamp.
func (s *service) Complete(ctx context.Context, userID uuid.UUID) (*Status, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	err := s.store.Set(ctx, kvstore.OnboardedKey(userID.String()), now, 0)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write onboarding flag")
	}
	if err := s.store.Del(ctx, kvstore.OnboardingPendingKey(userID.String())); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear pending flag")
	}
	return s.Get(ctx, userID)
}
