package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mallexplorer/sme-backend/pkg/enums"
)

// ReturnRequest is a buyer-initiated return handled by the store's
// approved seller. Status updates are plain overwrites.
type ReturnRequest struct {
	ID           uuid.UUID          `gorm:"type:uuid;primaryKey"`
	OrderID      string             `gorm:"column:order_id;not null;index"`
	StoreID      uuid.UUID          `gorm:"type:uuid;column:store_id;not null;index"`
	Status       enums.ReturnStatus `gorm:"type:text;column:status;not null;default:'requested'"`
	Reason       string             `gorm:"type:text;column:reason"`
	StoreMessage string             `gorm:"type:text;column:store_message"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
