package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/mallexplorer/sme-backend/pkg/enums"
	pkgerrors "github.com/mallexplorer/sme-backend/pkg/errors"
	"github.com/mallexplorer/sme-backend/pkg/kvstore"
	"github.com/google/uuid"
)

// maxFeedLength bounds the per-user feed; the oldest entries fall off.
const maxFeedLength = 100

// Notification is one entry of the per-user feed, stored as JSON in the
// KV record.
type Notification struct {
	ID        uuid.UUID              `json:"id"`
	Type      enums.NotificationType `json:"type"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// Service maintains the per-user notification feeds.
type Service interface {
	Push(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, title, body string) error
	List(ctx context.Context, userID uuid.UUID) ([]Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error)
}

type service struct {
	store kvstore.Store
}

// NewService constructs the notifications service over the KV store.
func NewService(store kvstore.Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("kv store is required")
	}
	return &service{store: store}, nil
}

// Push prepends a notification to the user's feed, trimming the oldest
// entries past the cap.
func (s *service) Push(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, title, body string) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	feed, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	entry := Notification{
		ID:        uuid.New(),
		Type:      kind,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	feed = append([]Notification{entry}, feed...)
	if len(feed) > maxFeedLength {
		feed = feed[:maxFeedLength]
	}
	return s.save(ctx, userID, feed)
}

// List returns the feed, newest first. A missing or malformed record
// reads as an empty feed.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]Notification, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.load(ctx, userID)
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if userID == uuid.Nil || notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user and notification ids are required")
	}

	feed, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for i := range feed {
		if feed[i].ID == notificationID {
			if feed[i].ReadAt == nil {
				feed[i].ReadAt = &now
				return s.save(ctx, userID, feed)
			}
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	feed, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	marked := 0
	for i := range feed {
		if feed[i].ReadAt == nil {
			feed[i].ReadAt = &now
			marked++
		}
	}
	if marked == 0 {
		return 0, nil
	}
	return marked, s.save(ctx, userID, feed)
}

func (s *service) load(ctx context.Context, userID uuid.UUID) ([]Notification, error) {
	var feed []Notification
	found, err := kvstore.GetJSON(ctx, s.store, kvstore.NotificationsKey(userID.String()), &feed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read notification feed")
	}
	if !found {
		return nil, nil
	}
	return feed, nil
}

func (s *service) save(ctx context.Context, userID uuid.UUID, feed []Notification) error {
	err := kvstore.SetJSON(ctx, s.store, kvstore.NotificationsKey(userID.String()), feed, 0)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write notification feed")
	}
	return nil
}
