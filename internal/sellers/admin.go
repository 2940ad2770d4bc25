package sellers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mallexplorer/sme-backend/pkg/db/models"
	"github.com/mallexplorer/sme-backend/pkg/enums"
	pkgerrors "github.com/mallexplorer/sme-backend/pkg/errors"
	"github.com/mallexplorer/sme-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminService covers the decision side of the access workflow.
type AdminService interface {
	List(ctx context.Context, status *enums.RequestStatus) ([]SellerRequestDTO, error)
	Approve(ctx context.Context, adminID, requestID uuid.UUID) (*SellerRequestDTO, error)
	Reject(ctx context.Context, adminID, requestID uuid.UUID) (*SellerRequestDTO, error)
}

type adminService struct {
	requests adminRequestRepository
	notify   notifier
	logg     *logger.Logger
}

type adminRequestRepository interface {
	FindRequestByID(ctx context.Context, id uuid.UUID) (*models.SellerAccessRequest, error)
	ListRequests(ctx context.Context, status *enums.RequestStatus) ([]models.SellerAccessRequest, error)
	DecideRequest(ctx context.Context, id uuid.UUID, status enums.RequestStatus, decidedBy uuid.UUID, decidedAt time.Time) (bool, error)
	GrantApproval(ctx context.Context, userID, storeID, grantedBy uuid.UUID) error
}

type notifier interface {
	Push(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, title, body string) error
}

// AdminServiceParams bundles dependencies for the decision service.
type AdminServiceParams struct {
	RequestRepo adminRequestRepository
	Notifier    notifier
	Logger      *logger.Logger
}

// NewAdminService constructs the decision service.
func NewAdminService(params AdminServiceParams) (AdminService, error) {
	if params.RequestRepo == nil {
		return nil, fmt.Errorf("request repository is required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &adminService{
		requests: params.RequestRepo,
		notify:   params.Notifier,
		logg:     params.Logger,
	}, nil
}

func (s *adminService) List(ctx context.Context, status *enums.RequestStatus) ([]SellerRequestDTO, error) {
	requests, err := s.requests.ListRequests(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list requests")
	}
	return fromModels(requests), nil
}

func (s *adminService) Approve(ctx context.Context, adminID, requestID uuid.UUID) (*SellerRequestDTO, error) {
	request, err := s.loadPending(ctx, requestID)
	if err != nil {
		return nil, err
	}

	// Grant before flipping the status: the upsert is idempotent, so a
	// retry after a partial failure can still complete the decision.
	if err := s.requests.GrantApproval(ctx, request.UserID, request.StoreID, adminID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "grant approval")
	}

	decided, err := s.decide(ctx, request, enums.RequestStatusApproved, adminID)
	if err != nil {
		return nil, err
	}

	s.pushDecision(ctx, decided, enums.NotificationTypeSellerApproved,
		"Seller access approved",
		fmt.Sprintf("You can now manage %s.", decided.StoreName))
	return fromModel(decided), nil
}

func (s *adminService) Reject(ctx context.Context, adminID, requestID uuid.UUID) (*SellerRequestDTO, error) {
	request, err := s.loadPending(ctx, requestID)
	if err != nil {
		return nil, err
	}

	decided, err := s.decide(ctx, request, enums.RequestStatusRejected, adminID)
	if err != nil {
		return nil, err
	}

	s.pushDecision(ctx, decided, enums.NotificationTypeSellerRejected,
		"Seller access rejected",
		fmt.Sprintf("Your request to manage %s was not approved.", decided.StoreName))
	return fromModel(decided), nil
}

func (s *adminService) loadPending(ctx context.Context, requestID uuid.UUID) (*models.SellerAccessRequest, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id is required")
	}
	request, err := s.requests.FindRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load request")
	}
	if request.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request already decided")
	}
	return request, nil
}

func (s *adminService) decide(ctx context.Context, request *models.SellerAccessRequest, status enums.RequestStatus, adminID uuid.UUID) (*models.SellerAccessRequest, error) {
	at := decidedNow()
	applied, err := s.requests.DecideRequest(ctx, request.ID, status, adminID, at)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decide request")
	}
	if !applied {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request already decided")
	}

	request.Status = status
	request.DecidedAt = &at
	request.DecidedBy = &adminID
	return request, nil
}

// pushDecision fans the decision out to the requester's feed. Delivery
// is best effort: a feed failure never rolls back the decision.
func (s *adminService) pushDecision(ctx context.Context, request *models.SellerAccessRequest, kind enums.NotificationType, title, body string) {
	if err := s.notify.Push(ctx, request.UserID, kind, title, body); err != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"request_id": request.ID.String(),
			"user_id":    request.UserID.String(),
		})
		s.logg.Error(ctx, "push decision notification", err)
	}
}
