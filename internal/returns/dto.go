package returns

import (
	"time"

	"github.com/mallexplorer/sme-backend/pkg/db/models"
	"github.com/mallexplorer/sme-backend/pkg/enums"
	"github.com/google/uuid"
)

// UpdateReturnRequest overwrites the seller-facing fields of a return.
type UpdateReturnRequest struct {
	Status       enums.ReturnStatus `json:"status" validate:"required"`
	StoreMessage string             `json:"store_message,omitempty"`
}

// ReturnDTO is the transport shape of a return request.
type ReturnDTO struct {
	ID           uuid.UUID          `json:"id"`
	OrderID      string             `json:"order_id"`
	StoreID      uuid.UUID          `json:"store_id"`
	Status       enums.ReturnStatus `json:"status"`
	Reason       string             `json:"reason,omitempty"`
	StoreMessage string             `json:"store_message,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func fromModel(request *models.ReturnRequest) *ReturnDTO {
	if request == nil {
		return nil
	}
	return &ReturnDTO{
		ID:           request.ID,
		OrderID:      request.OrderID,
		StoreID:      request.StoreID,
		Status:       request.Status,
		Reason:       request.Reason,
		StoreMessage: request.StoreMessage,
		CreatedAt:    request.CreatedAt,
		UpdatedAt:    request.UpdatedAt,
	}
}

func fromModels(requests []models.ReturnRequest) []ReturnDTO {
	out := make([]ReturnDTO, 0, len(requests))
	for i := range requests {
		out = append(out, *fromModel(&requests[i]))
	}
	return out
}
