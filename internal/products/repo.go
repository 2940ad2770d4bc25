package products

import (
	"context"
	"time"

	"github.com/mallexplorer/sme-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes seller-side product persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindProduct loads one product by id.
func (r *Repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// UpsertOverride writes the override row for a product. Last write
// wins; the updated_by column tracks only the most recent author.
func (r *Repository) UpsertOverride(ctx context.Context, override *models.ProductOverride) (*models.ProductOverride, error) {
	override.UpdatedAt = time.Now().UTC()
	if override.ID == uuid.Nil {
		override.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"price_cents", "availability", "image_url", "updated_by", "updated_at",
			}),
		}).
		Create(override).Error
	if err != nil {
		return nil, err
	}
	return override, nil
}

// DeleteOverride removes the override row for a product, if present.
func (r *Repository) DeleteOverride(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&models.ProductOverride{}).Error
}

// CreateProduct inserts a seller-created product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.CreatedAt == nil {
		now := time.Now().UTC()
		product.CreatedAt = &now
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes the product and any override in one transaction.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductOverride{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Product{}).Error
	})
}
