package trending

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mallexplorer/sme-backend/pkg/enums"
	pkgerrors "github.com/mallexplorer/sme-backend/pkg/errors"
	"github.com/mallexplorer/sme-backend/pkg/kvstore"
	"github.com/google/uuid"
)

const defaultTopN = 10

// Entry is one trending counter.
type Entry struct {
	EntityType enums.EntityType `json:"entity_type"`
	EntityID   uuid.UUID        `json:"entity_id"`
	Views      int64            `json:"views"`
}

// Service maintains the shared view-count hash.
type Service interface {
	Bump(ctx context.Context, entity enums.EntityType, id uuid.UUID) error
	Top(ctx context.Context, entity enums.EntityType, limit int) ([]Entry, error)
}

type service struct {
	store kvstore.Store
}

// NewService constructs the trending service over the KV store.
func NewService(store kvstore.Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("kv store is required")
	}
	return &service{store: store}, nil
}

// Bump increments the view counter for one entity.
func (s *service) Bump(ctx context.Context, entity enums.EntityType, id uuid.UUID) error {
	if !entity.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid entity type")
	}
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "entity id is required")
	}
	field := kvstore.TrendingField(entity.String(), id.String())
	if _, err := s.store.HIncrBy(ctx, kvstore.TrendingKey, field, 1); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bump trending counter")
	}
	return nil
}

// Top returns the most viewed entities of one type, highest first.
// Fields that fail to parse are skipped; a corrupt counter never takes
// the feed down.
func (s *service) Top(ctx context.Context, entity enums.EntityType, limit int) ([]Entry, error) {
	if !entity.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid entity type")
	}
	if limit <= 0 {
		limit = defaultTopN
	}

	fields, err := s.store.HGetAll(ctx, kvstore.TrendingKey)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read trending counters")
	}

	prefix := entity.String() + ":"
	entries := make([]Entry, 0, len(fields))
	for field, raw := range fields {
		if !strings.HasPrefix(field, prefix) {
			continue
		}
		id, err := uuid.Parse(strings.TrimPrefix(field, prefix))
		if err != nil {
			continue
		}
		views, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{EntityType: entity, EntityID: id, Views: views})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Views != entries[j].Views {
			return entries[i].Views > entries[j].Views
		}
		return entries[i].EntityID.String() < entries[j].EntityID.String()
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
