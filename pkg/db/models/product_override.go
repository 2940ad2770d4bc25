package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mallexplorer/sme-backend/pkg/enums"
)

// ProductOverride is a partial patch applied over the catalog row at
// read time. The catalog row itself is never mutated; upserts here are
// last-write-wins.
type ProductOverride struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey"`
	ProductID    uuid.UUID           `gorm:"type:uuid;column:product_id;not null;uniqueIndex"`
	StoreID      uuid.UUID           `gorm:"type:uuid;column:store_id;not null;index"`
	PriceCents   *int                `gorm:"column:price_cents"`
	Availability *enums.Availability `gorm:"type:text;column:availability"`
	ImageURL     *string             `gorm:"column:image_url"`
	UpdatedBy    uuid.UUID           `gorm:"type:uuid;column:updated_by;not null"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
