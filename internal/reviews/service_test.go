package reviews

import (
	"context"
	"fmt"
	"testing"

	"github.com/mallexplorer/sme-backend/pkg/enums"
	pkgerrors "github.com/mallexplorer/sme-backend/pkg/errors"
	"github.com/mallexplorer/sme-backend/pkg/kvstore"
	"github.com/google/uuid"
)

func TestServiceAddAndListNewestFirst(t *testing.T) {
	svc := mustReviewsService(t, kvstore.NewMemory())
	entityID := uuid.New()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_, err := svc.Add(ctx, uuid.New(), "Shopper", enums.EntityTypeStore, entityID, AddReviewRequest{
			Rating:  i,
			Comment: fmt.Sprintf("visit %d", i),
		})
		if err != nil {
			t.Fatalf("add review: %v", err)
		}
	}

	list, err := svc.List(ctx, enums.EntityTypeStore, entityID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 reviews, got %d", len(list))
	}
	if list[0].Comment != "visit 3" {
		t.Fatalf("expected newest first, got %q", list[0].Comment)
	}
}

func TestServiceAddRejectsEmptyComment(t *testing.T) {
	svc := mustReviewsService(t, kvstore.NewMemory())

	_, err := svc.Add(context.Background(), uuid.New(), "Shopper", enums.EntityTypeProduct, uuid.New(), AddReviewRequest{
		Rating:  4,
		Comment: "   ",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceAddRejectsRatingOutOfRange(t *testing.T) {
	svc := mustReviewsService(t, kvstore.NewMemory())

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Add(context.Background(), uuid.New(), "Shopper", enums.EntityTypeProduct, uuid.New(), AddReviewRequest{
			Rating:  rating,
			Comment: "fine",
		})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("rating %d: expected validation error, got %v", rating, err)
		}
	}
}

func TestServiceCapTrimsOldest(t *testing.T) {
	svc := mustReviewsService(t, kvstore.NewMemory())
	entityID := uuid.New()
	ctx := context.Background()

	for i := 0; i < maxReviewsPerEntity+5; i++ {
		_, err := svc.Add(ctx, uuid.New(), "Shopper", enums.EntityTypeMall, entityID, AddReviewRequest{
			Rating:  5,
			Comment: fmt.Sprintf("review %d", i),
		})
		if err != nil {
			t.Fatalf("add review: %v", err)
		}
	}

	list, err := svc.List(ctx, enums.EntityTypeMall, entityID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != maxReviewsPerEntity {
		t.Fatalf("expected list capped at %d, got %d", maxReviewsPerEntity, len(list))
	}
	if list[0].Comment != fmt.Sprintf("review %d", maxReviewsPerEntity+4) {
		t.Fatalf("expected newest review kept, got %q", list[0].Comment)
	}
}

func TestServiceMalformedListReadsAsEmpty(t *testing.T) {
	store := kvstore.NewMemory()
	svc := mustReviewsService(t, store)
	entityID := uuid.New()
	ctx := context.Background()

	key := kvstore.ReviewsKey(enums.EntityTypeStore.String(), entityID.String())
	if err := store.Set(ctx, key, "{broken", 0); err != nil {
		t.Fatalf("seed malformed record: %v", err)
	}

	list, err := svc.List(ctx, enums.EntityTypeStore, entityID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected malformed record to degrade to empty, got %d", len(list))
	}
}

func mustReviewsService(t *testing.T, store kvstore.Store) Service {
	t.Helper()
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}
