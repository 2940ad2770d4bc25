package returns

import (
	"context"
	"errors"
	"fmt"

	"github.com/mallexplorer/sme-backend/pkg/db/models"
	"github.com/mallexplorer/sme-backend/pkg/enums"
	pkgerrors "github.com/mallexplorer/sme-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service covers the seller side of return handling.
type Service interface {
	ListForStore(ctx context.Context, actorID, storeID uuid.UUID) ([]ReturnDTO, error)
	Update(ctx context.Context, actorID, storeID, returnID uuid.UUID, req UpdateReturnRequest) (*ReturnDTO, error)
}

type service struct {
	repo      returnRepository
	approvals approvalChecker
}

type returnRepository interface {
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.ReturnRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ReturnRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ReturnStatus, message string) (*models.ReturnRequest, error)
}

type approvalChecker interface {
	IsApproved(ctx context.Context, userID, storeID uuid.UUID) (bool, error)
}

// ServiceParams bundles the return handling dependencies.
type ServiceParams struct {
	Repo      returnRepository
	Approvals approvalChecker
}

// NewService constructs the returns service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("return repository is required")
	}
	if params.Approvals == nil {
		return nil, fmt.Errorf("approval checker is required")
	}
	return &service{
		repo:      params.Repo,
		approvals: params.Approvals,
	}, nil
}

func (s *service) ListForStore(ctx context.Context, actorID, storeID uuid.UUID) ([]ReturnDTO, error) {
	if err := s.authorize(ctx, actorID, storeID); err != nil {
		return nil, err
	}
	requests, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list returns")
	}
	return fromModels(requests), nil
}

// Update overwrites the return's status and message. The write is a
// plain overwrite: replaying the same update is harmless.
func (s *service) Update(ctx context.Context, actorID, storeID, returnID uuid.UUID, req UpdateReturnRequest) (*ReturnDTO, error) {
	if err := s.authorize(ctx, actorID, storeID); err != nil {
		return nil, err
	}
	if !req.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid return status")
	}

	request, err := s.repo.FindByID(ctx, returnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "return not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load return")
	}
	if request.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "return not found")
	}

	updated, err := s.repo.UpdateStatus(ctx, returnID, req.Status, req.StoreMessage)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update return")
	}
	return fromModel(updated), nil
}

func (s *service) authorize(ctx context.Context, actorID, storeID uuid.UUID) error {
	if actorID == uuid.Nil || storeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "actor and store ids are required")
	}
	approved, err := s.approvals.IsApproved(ctx, actorID, storeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check approval")
	}
	if !approved {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not approved for this store")
	}
	return nil
}
