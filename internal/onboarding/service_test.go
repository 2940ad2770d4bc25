package onboarding

import (
	"context"
	"testing"

	"github.com/mallexplorer/sme-backend/pkg/kvstore"
	"github.com/google/uuid"
)

func TestServiceLifecycle(t *testing.T) {
	svc := mustOnboardingService(t, kvstore.NewMemory())
	userID := uuid.New()
	ctx := context.Background()

	status, err := svc.Get(ctx, userID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if status.Onboarded || status.Pending {
		t.Fatalf("expected fresh user, got %+v", status)
	}

	status, err = svc.Start(ctx, userID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !status.Pending || status.Onboarded {
		t.Fatalf("expected pending after start, got %+v", status)
	}

	// Starting again changes nothing.
	status, err = svc.Start(ctx, userID)
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if !status.Pending {
		t.Fatalf("expected pending to persist, got %+v", status)
	}

	status, err = svc.Complete(ctx, userID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !status.Onboarded || status.Pending {
		t.Fatalf("expected onboarded after complete, got %+v", status)
	}
	if status.CompletedAt == nil {
		t.Fatalf("expected completion timestamp")
	}
}

func TestServiceMalformedCompletionFlagStillOnboarded(t *testing.T) {
	store := kvstore.NewMemory()
	svc := mustOnboardingService(t, store)
	userID := uuid.New()
	ctx := context.Background()

	// Legacy flags stored "1" instead of a timestamp.
	if err := store.Set(ctx, kvstore.OnboardedKey(userID.String()), "1", 0); err != nil {
		t.Fatalf("seed legacy flag: %v", err)
	}

	status, err := svc.Get(ctx, userID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !status.Onboarded {
		t.Fatalf("expected onboarded for legacy flag, got %+v", status)
	}
	if status.CompletedAt != nil {
		t.Fatalf("expected no timestamp for legacy flag, got %v", status.CompletedAt)
	}
}

func mustOnboardingService(t *testing.T, store kvstore.Store) Service {
	t.Helper()
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}
