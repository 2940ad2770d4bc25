package sellers

import (
	"context"
	"errors"
	"time"

	"github.com/mallexplorer/sme-backend/pkg/db/models"
	"github.com/mallexplorer/sme-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes persistence for access requests and the approval
// index.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateRequest inserts a new pending access request.
func (r *Repository) CreateRequest(ctx context.Context, userID, storeID uuid.UUID, storeName string) (*models.SellerAccessRequest, error) {
	request := &models.SellerAccessRequest{
		ID:        uuid.New(),
		UserID:    userID,
		StoreID:   storeID,
		StoreName: storeName,
		Status:    enums.RequestStatusPending,
	}
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

// FindRequestByID loads a request by its identifier.
func (r *Repository) FindRequestByID(ctx context.Context, id uuid.UUID) (*models.SellerAccessRequest, error) {
	var request models.SellerAccessRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// FindPendingRequest returns the pending request for the pair, if any.
func (r *Repository) FindPendingRequest(ctx context.Context, userID, storeID uuid.UUID) (*models.SellerAccessRequest, error) {
	var request models.SellerAccessRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND store_id = ? AND status = ?", userID, storeID, enums.RequestStatusPending).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// LatestRequest returns the most recent request for the pair, if any.
func (r *Repository) LatestRequest(ctx context.Context, userID, storeID uuid.UUID) (*models.SellerAccessRequest, error) {
	var request models.SellerAccessRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		Order("created_at DESC").
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// ListRequestsByUser returns all of a user's requests, newest first.
func (r *Repository) ListRequestsByUser(ctx context.Context, userID uuid.UUID) ([]models.SellerAccessRequest, error) {
	var requests []models.SellerAccessRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// ListRequests returns requests for the admin queue, optionally
// filtered by status, newest first.
func (r *Repository) ListRequests(ctx context.Context, status *enums.RequestStatus) ([]models.SellerAccessRequest, error) {
	query := r.db.WithContext(ctx).Model(&models.SellerAccessRequest{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var requests []models.SellerAccessRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// DecideRequest flips a pending request into a terminal status. The
// status guard in the WHERE clause makes concurrent decisions lose
// cleanly: the caller sees decided=false and re-reads.
func (r *Repository) DecideRequest(ctx context.Context, id uuid.UUID, status enums.RequestStatus, decidedBy uuid.UUID, decidedAt time.Time) (bool, error) {
	if !status.IsTerminal() {
		return false, errors.New("decision status must be terminal")
	}
	result := r.db.WithContext(ctx).
		Model(&models.SellerAccessRequest{}).
		Where("id = ? AND status = ?", id, enums.RequestStatusPending).
		Updates(map[string]any{
			"status":     status,
			"decided_by": decidedBy,
			"decided_at": decidedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GrantApproval writes an approval index entry. Granting twice for the
// same pair is a no-op.
func (r *Repository) GrantApproval(ctx context.Context, userID, storeID, grantedBy uuid.UUID) error {
	approval := &models.SellerApproval{
		ID:        uuid.New(),
		UserID:    userID,
		StoreID:   storeID,
		GrantedBy: grantedBy,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "store_id"}},
			DoNothing: true,
		}).
		Create(approval).Error
}

// HasApprovals reports whether the user holds any approval at all.
func (r *Repository) HasApprovals(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SellerApproval{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsApproved reports whether the user may manage the given store.
func (r *Repository) IsApproved(ctx context.Context, userID, storeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SellerApproval{}).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListApprovedStoreIDs returns the stores the user may manage.
func (r *Repository) ListApprovedStoreIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.SellerApproval{}).
		Where("user_id = ?", userID).
		Order("created_at").
		Pluck("store_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
