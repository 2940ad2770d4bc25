package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite marks a product saved by a user.
type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;column:user_id;not null;uniqueIndex:idx_favorites_user_product"`
	ProductID uuid.UUID `gorm:"type:uuid;column:product_id;not null;uniqueIndex:idx_favorites_user_product"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
