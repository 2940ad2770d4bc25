package returns

import (
	"context"
	"time"

	"github.com/mallexplorer/sme-backend/pkg/db/models"
	"github.com/mallexplorer/sme-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes return request persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByStore returns a store's return requests, newest first.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.ReturnRequest, error) {
	var requests []models.ReturnRequest
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// FindByID loads one return request.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ReturnRequest, error) {
	var request models.ReturnRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// UpdateStatus overwrites the status and store message. Identical
// repeated updates land on the same values.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ReturnStatus, message string) (*models.ReturnRequest, error) {
	err := r.db.WithContext(ctx).
		Model(&models.ReturnRequest{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        status,
			"store_message": message,
			"updated_at":    time.Now().UTC(),
		}).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}
