package catalog

import (
	"context"
	"strings"

	"github.com/mallexplorer/sme-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes read access to the seeded catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListMalls returns every mall, alphabetically.
func (r *Repository) ListMalls(ctx context.Context) ([]models.Mall, error) {
	var malls []models.Mall
	if err := r.db.WithContext(ctx).Order("name").Find(&malls).Error; err != nil {
		return nil, err
	}
	return malls, nil
}

// FindMall loads one mall by id.
func (r *Repository) FindMall(ctx context.Context, id uuid.UUID) (*models.Mall, error) {
	var mall models.Mall
	if err := r.db.WithContext(ctx).First(&mall, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &mall, nil
}

// ListStoresByMall returns a mall's stores ordered by floor then name.
func (r *Repository) ListStoresByMall(ctx context.Context, mallID uuid.UUID) ([]models.Store, error) {
	var stores []models.Store
	err := r.db.WithContext(ctx).
		Where("mall_id = ?", mallID).
		Order("floor, name").
		Find(&stores).Error
	if err != nil {
		return nil, err
	}
	return stores, nil
}

// FindStore loads one store by id.
func (r *Repository) FindStore(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// ListProductsByStore returns a store's products, name order.
func (r *Repository) ListProductsByStore(ctx context.Context, storeID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("name").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// FindProduct loads one product by id.
func (r *Repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProductsByIDs loads products in bulk, for trending and favorites.
func (r *Repository) ListProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// SearchProducts matches name or description, case-insensitive.
func (r *Repository) SearchProducts(ctx context.Context, query string, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 25
	}
	pattern := "%" + strings.ToLower(query) + "%"
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("name").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// OverrideForProduct returns the override row, if one exists.
func (r *Repository) OverrideForProduct(ctx context.Context, productID uuid.UUID) (*models.ProductOverride, error) {
	var override models.ProductOverride
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		First(&override).Error
	if err != nil {
		return nil, err
	}
	return &override, nil
}

// OverridesForStore returns every override for a store keyed by product.
func (r *Repository) OverridesForStore(ctx context.Context, storeID uuid.UUID) (map[uuid.UUID]models.ProductOverride, error) {
	var overrides []models.ProductOverride
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Find(&overrides).Error
	if err != nil {
		return nil, err
	}
	byProduct := make(map[uuid.UUID]models.ProductOverride, len(overrides))
	for _, override := range overrides {
		byProduct[override.ProductID] = override
	}
	return byProduct, nil
}

// OverridesForProducts returns overrides for a product set keyed by product.
func (r *Repository) OverridesForProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]models.ProductOverride, error) {
	if len(productIDs) == 0 {
		return map[uuid.UUID]models.ProductOverride{}, nil
	}
	var overrides []models.ProductOverride
	err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Find(&overrides).Error
	if err != nil {
		return nil, err
	}
	byProduct := make(map[uuid.UUID]models.ProductOverride, len(overrides))
	for _, override := range overrides {
		byProduct[override.ProductID] = override
	}
	return byProduct, nil
}
