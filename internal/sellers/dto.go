package sellers

import (
	"time"

	"github.com/mallexplorer/sme-backend/pkg/db/models"
	"github.com/mallexplorer/sme-backend/pkg/enums"
	"github.com/google/uuid"
)

// RequestAccessRequest is the payload for asking to manage a store.
type RequestAccessRequest struct {
	StoreID uuid.UUID `json:"store_id" validate:"required"`
}

// SellerRequestDTO is the transport shape of an access request.
type SellerRequestDTO struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"user_id"`
	StoreID   uuid.UUID           `json:"store_id"`
	StoreName string              `json:"store_name"`
	Status    enums.RequestStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	DecidedAt *time.Time          `json:"decided_at,omitempty"`
}

// StoreAccessStatus reports where a user stands for a single store.
// Status is "none" until a request exists.
type StoreAccessStatus struct {
	StoreID  uuid.UUID         `json:"store_id"`
	Status   string            `json:"status"`
	Approved bool              `json:"approved"`
	Request  *SellerRequestDTO `json:"request,omitempty"`
}

// StatusNone is reported before any request has been filed.
const StatusNone = "none"

func fromModel(request *models.SellerAccessRequest) *SellerRequestDTO {
	if request == nil {
		return nil
	}
	return &SellerRequestDTO{
		ID:        request.ID,
		UserID:    request.UserID,
		StoreID:   request.StoreID,
		StoreName: request.StoreName,
		Status:    request.Status,
		CreatedAt: request.CreatedAt,
		DecidedAt: request.DecidedAt,
	}
}

func fromModels(requests []models.SellerAccessRequest) []SellerRequestDTO {
	out := make([]SellerRequestDTO, 0, len(requests))
	for i := range requests {
		out = append(out, *fromModel(&requests[i]))
	}
	return out
}
