package catalog

import (
	"time"

	"github.com/mallexplorer/sme-backend/pkg/db/models"
	"github.com/mallexplorer/sme-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// MallDTO is the transport shape of a mall.
type MallDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	City     string    `json:"city"`
	Address  string    `json:"address,omitempty"`
	ImageURL *string   `json:"image_url,omitempty"`
}

// StoreDTO is the transport shape of a store.
type StoreDTO struct {
	ID          uuid.UUID `json:"id"`
	MallID      uuid.UUID `json:"mall_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Floor       int       `json:"floor"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
}

// ProductDTO is a catalog product with any seller override already
// applied. Base price fields stay visible so clients can render strike
// through pricing.
type ProductDTO struct {
	ID             uuid.UUID          `json:"id"`
	StoreID        uuid.UUID          `json:"store_id"`
	Name           string             `json:"name"`
	Description    string             `json:"description,omitempty"`
	Price          decimal.Decimal    `json:"price"`
	PriceCents     int                `json:"price_cents"`
	BasePrice      decimal.Decimal    `json:"base_price"`
	BasePriceCents int                `json:"base_price_cents"`
	PercentOff     *decimal.Decimal   `json:"percent_off,omitempty"`
	Availability   enums.Availability `json:"availability"`
	ImageURL       *string            `json:"image_url,omitempty"`
	Tags           []string           `json:"tags,omitempty"`
	IsCustom       bool               `json:"is_custom"`
	Overridden     bool               `json:"overridden"`
	CreatedAt      *time.Time         `json:"created_at,omitempty"`
}

func mallFromModel(mall *models.Mall) *MallDTO {
	if mall == nil {
		return nil
	}
	return &MallDTO{
		ID:       mall.ID,
		Name:     mall.Name,
		City:     mall.City,
		Address:  mall.Address,
		ImageURL: mall.ImageURL,
	}
}

func mallsFromModels(malls []models.Mall) []MallDTO {
	out := make([]MallDTO, 0, len(malls))
	for i := range malls {
		out = append(out, *mallFromModel(&malls[i]))
	}
	return out
}

func storeFromModel(store *models.Store) *StoreDTO {
	if store == nil {
		return nil
	}
	return &StoreDTO{
		ID:          store.ID,
		MallID:      store.MallID,
		Name:        store.Name,
		Category:    store.Category,
		Description: store.Description,
		Floor:       store.Floor,
		ImageURL:    store.ImageURL,
		Tags:        store.Tags,
	}
}

func storesFromModels(stores []models.Store) []StoreDTO {
	out := make([]StoreDTO, 0, len(stores))
	for i := range stores {
		out = append(out, *storeFromModel(&stores[i]))
	}
	return out
}

// productFromModel builds the transport shape, layering the override
// (if any) over the catalog row.
func productFromModel(product *models.Product, override *models.ProductOverride) *ProductDTO {
	if product == nil {
		return nil
	}

	dto := &ProductDTO{
		ID:             product.ID,
		StoreID:        product.StoreID,
		Name:           product.Name,
		Description:    product.Description,
		PriceCents:     product.PriceCents,
		BasePriceCents: product.PriceCents,
		Availability:   product.Availability,
		ImageURL:       product.ImageURL,
		Tags:           product.Tags,
		IsCustom:       product.IsCustom(),
		CreatedAt:      product.CreatedAt,
	}

	if override != nil {
		dto.Overridden = true
		if override.PriceCents != nil {
			dto.PriceCents = *override.PriceCents
		}
		if override.Availability != nil {
			dto.Availability = *override.Availability
		}
		if override.ImageURL != nil {
			dto.ImageURL = override.ImageURL
		}
	}

	dto.Price = centsToDecimal(dto.PriceCents)
	dto.BasePrice = centsToDecimal(dto.BasePriceCents)
	if dto.PriceCents < dto.BasePriceCents && dto.BasePriceCents > 0 {
		off := dto.BasePrice.Sub(dto.Price).
			Div(dto.BasePrice).
			Mul(oneHundred).
			Round(2)
		dto.PercentOff = &off
	}
	return dto
}

func centsToDecimal(cents int) decimal.Decimal {
	return decimal.NewFromInt(int64(cents)).Div(oneHundred)
}
