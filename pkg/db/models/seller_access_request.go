package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mallexplorer/sme-backend/pkg/enums"
)

// SellerAccessRequest records a user asking for management rights over
// a store. At most one pending request may exist per (user, store)
// pair; the partial unique index in the schema enforces it.
type SellerAccessRequest struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID           `gorm:"type:uuid;column:user_id;not null;index"`
	StoreID   uuid.UUID           `gorm:"type:uuid;column:store_id;not null;index"`
	StoreName string              `gorm:"column:store_name;not null"`
	Status    enums.RequestStatus `gorm:"type:text;column:status;not null;default:'pending'"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	DecidedAt *time.Time          `gorm:"column:decided_at"`
	DecidedBy *uuid.UUID          `gorm:"type:uuid;column:decided_by"`
}
