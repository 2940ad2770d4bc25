package reviews

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mallexplorer/sme-backend/pkg/enums"
	pkgerrors "github.com/mallexplorer/sme-backend/pkg/errors"
	"github.com/mallexplorer/sme-backend/pkg/kvstore"
	"github.com/google/uuid"
)

// maxReviewsPerEntity bounds each entity's review list; the oldest
// entries fall off.
const maxReviewsPerEntity = 40

// Review is one entry of an entity's review list.
type Review struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// AddReviewRequest is the payload for posting a review.
type AddReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

// Service maintains the capped per-entity review lists.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, userName string, entity enums.EntityType, entityID uuid.UUID, req AddReviewRequest) (*Review, error)
	List(ctx context.Context, entity enums.EntityType, entityID uuid.UUID) ([]Review, error)
}

type service struct {
	store kvstore.Store
}

// NewService constructs the reviews service over the KV store.
func NewService(store kvstore.Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("kv store is required")
	}
	return &service{store: store}, nil
}

// Add prepends a review, trimming past the cap.
func (s *service) Add(ctx context.Context, userID uuid.UUID, userName string, entity enums.EntityType, entityID uuid.UUID, req AddReviewRequest) (*Review, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !entity.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid entity type")
	}
	if entityID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "entity id is required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment cannot be empty")
	}

	list, err := s.load(ctx, entity, entityID)
	if err != nil {
		return nil, err
	}

	review := Review{
		ID:        uuid.New(),
		UserID:    userID,
		UserName:  userName,
		Rating:    req.Rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}
	list = append([]Review{review}, list...)
	if len(list) > maxReviewsPerEntity {
		list = list[:maxReviewsPerEntity]
	}

	key := kvstore.ReviewsKey(entity.String(), entityID.String())
	if err := kvstore.SetJSON(ctx, s.store, key, list, 0); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write reviews")
	}
	return &review, nil
}

// List returns an entity's reviews, newest first. A missing or
// malformed record reads as no reviews.
func (s *service) List(ctx context.Context, entity enums.EntityType, entityID uuid.UUID) ([]Review, error) {
	if !entity.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid entity type")
	}
	if entityID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "entity id is required")
	}
	return s.load(ctx, entity, entityID)
}

func (s *service) load(ctx context.Context, entity enums.EntityType, entityID uuid.UUID) ([]Review, error) {
	var list []Review
	key := kvstore.ReviewsKey(entity.String(), entityID.String())
	found, err := kvstore.GetJSON(ctx, s.store, key, &list)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read reviews")
	}
	if !found {
		return nil, nil
	}
	return list, nil
}
