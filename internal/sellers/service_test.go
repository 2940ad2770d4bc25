package sellers

import (
	"context"
	"testing"
	"time"

	"github.com/mallexplorer/sme-backend/pkg/db/models"
	"github.com/mallexplorer/sme-backend/pkg/enums"
	pkgerrors "github.com/mallexplorer/sme-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestServiceRequestAccessCreatesPendingRequest(t *testing.T) {
	storeID := uuid.New()
	userID := uuid.New()
	repo := newStubRequestRepo()
	svc := mustService(t, repo, stubStoreReader{stores: map[uuid.UUID]*models.Store{
		storeID: {ID: storeID, Name: "Trail & Peak"},
	}})

	dto, err := svc.RequestAccess(context.Background(), userID, RequestAccessRequest{StoreID: storeID})
	if err != nil {
		t.Fatalf("request access: %v", err)
	}
	if dto.Status != enums.RequestStatusPending {
		t.Fatalf("expected pending status, got %s", dto.Status)
	}
	if dto.StoreName != "Trail & Peak" {
		t.Fatalf("expected store name snapshot, got %q", dto.StoreName)
	}
}

func TestServiceRequestAccessUnknownStore(t *testing.T) {
	repo := newStubRequestRepo()
	svc := mustService(t, repo, stubStoreReader{})

	_, err := svc.RequestAccess(context.Background(), uuid.New(), RequestAccessRequest{StoreID: uuid.New()})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestServiceRequestAccessMissingStoreID(t *testing.T) {
	repo := newStubRequestRepo()
	svc := mustService(t, repo, stubStoreReader{})

	_, err := svc.RequestAccess(context.Background(), uuid.New(), RequestAccessRequest{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceRequestAccessDuplicatePending(t *testing.T) {
	storeID := uuid.New()
	userID := uuid.New()
	repo := newStubRequestRepo()
	svc := mustService(t, repo, stubStoreReader{stores: map[uuid.UUID]*models.Store{
		storeID: {ID: storeID, Name: "Trail & Peak"},
	}})

	if _, err := svc.RequestAccess(context.Background(), userID, RequestAccessRequest{StoreID: storeID}); err != nil {
		t.Fatalf("first request: %v", err)
	}
	_, err := svc.RequestAccess(context.Background(), userID, RequestAccessRequest{StoreID: storeID})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestServiceRequestAccessAlreadyApproved(t *testing.T) {
	storeID := uuid.New()
	userID := uuid.New()
	repo := newStubRequestRepo()
	repo.approvals[approvalKey{userID, storeID}] = true
	svc := mustService(t, repo, stubStoreReader{stores: map[uuid.UUID]*models.Store{
		storeID: {ID: storeID, Name: "Trail & Peak"},
	}})

	_, err := svc.RequestAccess(context.Background(), userID, RequestAccessRequest{StoreID: storeID})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict error, got %v", err)
	}
}

func TestServiceStatusForStoreProgression(t *testing.T) {
	storeID := uuid.New()
	userID := uuid.New()
	repo := newStubRequestRepo()
	svc := mustService(t, repo, stubStoreReader{stores: map[uuid.UUID]*models.Store{
		storeID: {ID: storeID, Name: "Trail & Peak"},
	}})
	ctx := context.Background()

	status, err := svc.StatusForStore(ctx, userID, storeID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Status != StatusNone || status.Request != nil {
		t.Fatalf("expected none before any request, got %+v", status)
	}

	if _, err := svc.RequestAccess(ctx, userID, RequestAccessRequest{StoreID: storeID}); err != nil {
		t.Fatalf("request access: %v", err)
	}

	status, err = svc.StatusForStore(ctx, userID, storeID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Status != enums.RequestStatusPending.String() {
		t.Fatalf("expected pending, got %s", status.Status)
	}

	// Approval index wins over the request row.
	repo.approvals[approvalKey{userID, storeID}] = true
	status, err = svc.StatusForStore(ctx, userID, storeID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Status != enums.RequestStatusApproved.String() || !status.Approved {
		t.Fatalf("expected approved, got %+v", status)
	}
}

func mustService(t *testing.T, repo requestRepository, stores storeReader) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{RequestRepo: repo, StoreReader: stores})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

type approvalKey struct {
	userID  uuid.UUID
	storeID uuid.UUID
}

type stubRequestRepo struct {
	requests  []*models.SellerAccessRequest
	approvals map[approvalKey]bool
}

func newStubRequestRepo() *stubRequestRepo {
	return &stubRequestRepo{approvals: map[approvalKey]bool{}}
}

func (s *stubRequestRepo) CreateRequest(ctx context.Context, userID, storeID uuid.UUID, storeName string) (*models.SellerAccessRequest, error) {
	request := &models.SellerAccessRequest{
		ID:        uuid.New(),
		UserID:    userID,
		StoreID:   storeID,
		StoreName: storeName,
		Status:    enums.RequestStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	s.requests = append(s.requests, request)
	return request, nil
}

func (s *stubRequestRepo) FindPendingRequest(ctx context.Context, userID, storeID uuid.UUID) (*models.SellerAccessRequest, error) {
	for _, request := range s.requests {
		if request.UserID == userID && request.StoreID == storeID && request.Status == enums.RequestStatusPending {
			return request, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRequestRepo) LatestRequest(ctx context.Context, userID, storeID uuid.UUID) (*models.SellerAccessRequest, error) {
	for i := len(s.requests) - 1; i >= 0; i-- {
		request := s.requests[i]
		if request.UserID == userID && request.StoreID == storeID {
			return request, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRequestRepo) ListRequestsByUser(ctx context.Context, userID uuid.UUID) ([]models.SellerAccessRequest, error) {
	var out []models.SellerAccessRequest
	for _, request := range s.requests {
		if request.UserID == userID {
			out = append(out, *request)
		}
	}
	return out, nil
}

func (s *stubRequestRepo) IsApproved(ctx context.Context, userID, storeID uuid.UUID) (bool, error) {
	return s.approvals[approvalKey{userID, storeID}], nil
}

func (s *stubRequestRepo) ListApprovedStoreIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for key := range s.approvals {
		if key.userID == userID {
			ids = append(ids, key.storeID)
		}
	}
	return ids, nil
}

type stubStoreReader struct {
	stores map[uuid.UUID]*models.Store
}

func (s stubStoreReader) FindStore(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	if store, ok := s.stores[id]; ok {
		return store, nil
	}
	return nil, gorm.ErrRecordNotFound
}
