package products

import (
	"time"

	"github.com/mallexplorer/sme-backend/pkg/db/models"
	"github.com/mallexplorer/sme-backend/pkg/enums"
	"github.com/google/uuid"
)

// UpsertOverrideRequest patches the sellable fields of a catalog row.
// Absent fields keep their current catalog value.
type UpsertOverrideRequest struct {
	PriceCents   *int                `json:"price_cents,omitempty" validate:"omitempty,min=0"`
	Availability *enums.Availability `json:"availability,omitempty"`
	ImageURL     *string             `json:"image_url,omitempty" validate:"omitempty,url"`
}

// CreateProductRequest is the payload for a seller-created product.
type CreateProductRequest struct {
	Name         string              `json:"name" validate:"required"`
	Description  string              `json:"description,omitempty"`
	PriceCents   int                 `json:"price_cents" validate:"min=0"`
	Availability *enums.Availability `json:"availability,omitempty"`
	ImageURL     *string             `json:"image_url,omitempty" validate:"omitempty,url"`
	Tags         []string            `json:"tags,omitempty"`
}

// OverrideDTO is the transport shape of an override row.
type OverrideDTO struct {
	ProductID    uuid.UUID           `json:"product_id"`
	StoreID      uuid.UUID           `json:"store_id"`
	PriceCents   *int                `json:"price_cents,omitempty"`
	Availability *enums.Availability `json:"availability,omitempty"`
	ImageURL     *string             `json:"image_url,omitempty"`
	UpdatedBy    uuid.UUID           `json:"updated_by"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// ProductDTO is the transport shape of a seller-owned product row.
type ProductDTO struct {
	ID           uuid.UUID          `json:"id"`
	StoreID      uuid.UUID          `json:"store_id"`
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	PriceCents   int                `json:"price_cents"`
	Availability enums.Availability `json:"availability"`
	ImageURL     *string            `json:"image_url,omitempty"`
	Tags         []string           `json:"tags,omitempty"`
	IsCustom     bool               `json:"is_custom"`
	CreatedAt    *time.Time         `json:"created_at,omitempty"`
}

func overrideFromModel(override *models.ProductOverride) *OverrideDTO {
	if override == nil {
		return nil
	}
	return &OverrideDTO{
		ProductID:    override.ProductID,
		StoreID:      override.StoreID,
		PriceCents:   override.PriceCents,
		Availability: override.Availability,
		ImageURL:     override.ImageURL,
		UpdatedBy:    override.UpdatedBy,
		UpdatedAt:    override.UpdatedAt,
	}
}

func productFromModel(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}
	return &ProductDTO{
		ID:           product.ID,
		StoreID:      product.StoreID,
		Name:         product.Name,
		Description:  product.Description,
		PriceCents:   product.PriceCents,
		Availability: product.Availability,
		ImageURL:     product.ImageURL,
		Tags:         product.Tags,
		IsCustom:     product.IsCustom(),
		CreatedAt:    product.CreatedAt,
	}
}
