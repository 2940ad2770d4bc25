package sellers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mallexplorer/sme-backend/pkg/db/models"
	"github.com/mallexplorer/sme-backend/pkg/enums"
	pkgerrors "github.com/mallexplorer/sme-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service covers the user-facing side of the access workflow.
type Service interface {
	RequestAccess(ctx context.Context, userID uuid.UUID, req RequestAccessRequest) (*SellerRequestDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]SellerRequestDTO, error)
	StatusForStore(ctx context.Context, userID, storeID uuid.UUID) (*StoreAccessStatus, error)
	ApprovedStoreIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type service struct {
	requests requestRepository
	stores   storeReader
}

type requestRepository interface {
	CreateRequest(ctx context.Context, userID, storeID uuid.UUID, storeName string) (*models.SellerAccessRequest, error)
	FindPendingRequest(ctx context.Context, userID, storeID uuid.UUID) (*models.SellerAccessRequest, error)
	LatestRequest(ctx context.Context, userID, storeID uuid.UUID) (*models.SellerAccessRequest, error)
	ListRequestsByUser(ctx context.Context, userID uuid.UUID) ([]models.SellerAccessRequest, error)
	IsApproved(ctx context.Context, userID, storeID uuid.UUID) (bool, error)
	ListApprovedStoreIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type storeReader interface {
	FindStore(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// ServiceParams bundles the dependencies for the request workflow.
type ServiceParams struct {
	RequestRepo requestRepository
	StoreReader storeReader
}

// NewService constructs the user-facing access request service.
func NewService(params ServiceParams) (Service, error) {
	if params.RequestRepo == nil {
		return nil, fmt.Errorf("request repository is required")
	}
	if params.StoreReader == nil {
		return nil, fmt.Errorf("store reader is required")
	}
	return &service{
		requests: params.RequestRepo,
		stores:   params.StoreReader,
	}, nil
}

func (s *service) RequestAccess(ctx context.Context, userID uuid.UUID, req RequestAccessRequest) (*SellerRequestDTO, error) {
	if req.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}

	store, err := s.stores.FindStore(ctx, req.StoreID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load store")
	}

	approved, err := s.requests.IsApproved(ctx, userID, req.StoreID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check approval")
	}
	if approved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "already approved for this store")
	}

	if _, err := s.requests.FindPendingRequest(ctx, userID, req.StoreID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a request for this store is already pending")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check pending request")
	}

	request, err := s.requests.CreateRequest(ctx, userID, req.StoreID, store.Name)
	if err != nil {
		// The partial unique index catches the race between the
		// pending check and the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a request for this store is already pending")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create request")
	}
	return fromModel(request), nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]SellerRequestDTO, error) {
	requests, err := s.requests.ListRequestsByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list requests")
	}
	return fromModels(requests), nil
}

// StatusForStore reports the workflow state for one (user, store) pair.
// The approval index wins over request history: once approved, the
// status stays approved even if the latest request row was rejected.
func (s *service) StatusForStore(ctx context.Context, userID, storeID uuid.UUID) (*StoreAccessStatus, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}

	approved, err := s.requests.IsApproved(ctx, userID, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check approval")
	}

	status := &StoreAccessStatus{
		StoreID:  storeID,
		Status:   StatusNone,
		Approved: approved,
	}
	if approved {
		status.Status = enums.RequestStatusApproved.String()
	}

	latest, err := s.requests.LatestRequest(ctx, userID, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return status, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load latest request")
	}

	status.Request = fromModel(latest)
	if !approved {
		status.Status = latest.Status.String()
	}
	return status, nil
}

func (s *service) ApprovedStoreIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids, err := s.requests.ListApprovedStoreIDs(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list approved stores")
	}
	return ids, nil
}

// decidedNow keeps decision timestamps consistent between the request
// row and the notification payload.
func decidedNow() time.Time {
	return time.Now().UTC()
}
