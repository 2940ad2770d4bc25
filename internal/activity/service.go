package activity

import (
	"context"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/mallexplorer/sme-backend/pkg/errors"
	"github.com/mallexplorer/sme-backend/pkg/kvstore"
	"github.com/google/uuid"
)

// maxLogLength bounds the per-user log; the oldest entries fall off.
const maxLogLength = 100

// Entry is one action in a user's activity log.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type,omitempty"`
	EntityID   string    `json:"entity_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Service maintains the capped per-user activity logs.
type Service interface {
	Record(ctx context.Context, userID uuid.UUID, action, entityType, entityID string) error
	List(ctx context.Context, userID uuid.UUID) ([]Entry, error)
}

type service struct {
	store kvstore.Store
}

// NewService constructs the activity service over the KV store.
func NewService(store kvstore.Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("kv store is required")
	}
	return &service{store: store}, nil
}

// Record prepends an entry, trimming past the cap.
func (s *service) Record(ctx context.Context, userID uuid.UUID, action, entityType, entityID string) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "action is required")
	}

	log, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	entry := Entry{
		ID:         uuid.New(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		CreatedAt:  time.Now().UTC(),
	}
	log = append([]Entry{entry}, log...)
	if len(log) > maxLogLength {
		log = log[:maxLogLength]
	}

	err = kvstore.SetJSON(ctx, s.store, kvstore.ActivityKey(userID.String()), log, 0)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write activity log")
	}
	return nil
}

// List returns the log, newest first. A missing or malformed record
// reads as an empty log.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]Entry, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.load(ctx, userID)
}

func (s *service) load(ctx context.Context, userID uuid.UUID) ([]Entry, error) {
	var log []Entry
	found, err := kvstore.GetJSON(ctx, s.store, kvstore.ActivityKey(userID.String()), &log)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read activity log")
	}
	if !found {
		return nil, nil
	}
	return log, nil
}
