package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mallexplorer/sme-backend/pkg/enums"
)

// Mall is a read-only catalog row seeded by migration.
type Mall struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name     string    `gorm:"type:text;not null"`
	City     string    `gorm:"type:text;not null"`
	Address  string    `gorm:"type:text"`
	ImageURL *string   `gorm:"column:image_url"`
}

// Store is a read-only catalog row seeded by migration. Seller rights
// over a store live in SellerApproval, never on the row itself.
type Store struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	MallID      uuid.UUID      `gorm:"type:uuid;column:mall_id;not null;index"`
	Name        string         `gorm:"type:text;not null"`
	Category    string         `gorm:"type:text"`
	Description string         `gorm:"type:text"`
	Floor       int            `gorm:"column:floor;not null;default:0"`
	ImageURL    *string        `gorm:"column:image_url"`
	Tags        pq.StringArray `gorm:"type:text[];column:tags"`
}

// Product is a catalog row. Seeded rows carry NULL created_by/created_at;
// seller-created rows ("custom products") carry both, and only those may
// be deleted.
type Product struct {
	ID           uuid.UUID          `gorm:"type:uuid;primaryKey"`
	StoreID      uuid.UUID          `gorm:"type:uuid;column:store_id;not null;index"`
	Name         string             `gorm:"type:text;not null"`
	Description  string             `gorm:"type:text"`
	PriceCents   int                `gorm:"column:price_cents;not null"`
	ImageURL     *string            `gorm:"column:image_url"`
	Availability enums.Availability `gorm:"type:text;column:availability;not null;default:'in_stock'"`
	Tags         pq.StringArray     `gorm:"type:text[];column:tags"`
	CreatedBy    *uuid.UUID         `gorm:"type:uuid;column:created_by"`
	CreatedAt    *time.Time         `gorm:"column:created_at;autoCreateTime:false"`
}

// IsCustom reports whether the product was created by a seller rather
// than seeded from the catalog.
func (p Product) IsCustom() bool {
	return p.CreatedAt != nil
}
