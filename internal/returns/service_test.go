package returns

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

func TestServiceListRequiresApproval(t *testing.T) {
	svc := mustReturnsService(t, &stubReturnRepo{}, stubApprovals{})

	_, err := svc.ListForStore(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestServiceUpdateOverwritesStatusAndMessage(t *testing.T) {
	storeID := uuid.New()
	request := &models.ReturnRequest{
		ID:        uuid.New(),
		OrderID:   "ORD-1042",
		StoreID:   storeID,
		Status:    enums.ReturnStatusRequested,
		Reason:    "wrong size",
		CreatedAt: time.Now().UTC(),
	}
	repo := &stubReturnRepo{requests: map[uuid.UUID]*models.ReturnRequest{request.ID: request}}
	svc := mustReturnsService(t, repo, stubApprovals{approved: map[uuid.UUID]bool{storeID: true}})

	update := UpdateReturnRequest{Status: enums.ReturnStatusApproved, StoreMessage: "Refund on its way"}
	dto, err := svc.Update(context.Background(), uuid.New(), storeID, request.ID, update)
	if err != nil {
		t.Fatalf("update return: %v", err)
	}
	if dto.Status != enums.ReturnStatusApproved || dto.StoreMessage != "Refund on its way" {
		t.Fatalf("unexpected result %+v", dto)
	}

	// Replaying the identical update lands on the same values.
	again, err := svc.Update(context.Background(), uuid.New(), storeID, request.ID, update)
	if err != nil {
		t.Fatalf("replay update: %v", err)
	}
	if again.Status != dto.Status || again.StoreMessage != dto.StoreMessage {
		t.Fatalf("replay changed the record: %+v vs %+v", again, dto)
	}
}

func TestServiceUpdateRejectsUnknownStatus(t *testing.T) {
	storeID := uuid.New()
	svc := mustReturnsService(t, &stubReturnRepo{}, stubApprovals{approved: map[uuid.UUID]bool{storeID: true}})

	_, err := svc.Update(context.Background(), uuid.New(), storeID, uuid.New(), UpdateReturnRequest{Status: "escalated"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceUpdateWrongStoreReadsNotFound(t *testing.T) {
	storeID := uuid.New()
	request := &models.ReturnRequest{ID: uuid.New(), StoreID: uuid.New(), Status: enums.ReturnStatusRequested}
	repo := &stubReturnRepo{requests: map[uuid.UUID]*models.ReturnRequest{request.ID: request}}
	svc := mustReturnsService(t, repo, stubApprovals{approved: map[uuid.UUID]bool{storeID: true}})

	_, err := svc.Update(context.Background(), uuid.New(), storeID, request.ID, UpdateReturnRequest{Status: enums.ReturnStatusRejected})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func mustReturnsService(t *testing.T, repo returnRepository, approvals approvalChecker) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Approvals: approvals})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

type stubReturnRepo struct {
	requests map[uuid.UUID]*models.ReturnRequest
}

func (s *stubReturnRepo) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.ReturnRequest, error) {
	var out []models.ReturnRequest
	for _, request := range s.requests {
		if request.StoreID == storeID {
			out = append(out, *request)
		}
	}
	return out, nil
}

func (s *stubReturnRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ReturnRequest, error) {
	if request, ok := s.requests[id]; ok {
		return request, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubReturnRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ReturnStatus, message string) (*models.ReturnRequest, error) {
	request, ok := s.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	request.Status = status
	request.StoreMessage = message
	request.UpdatedAt = time.Now().UTC()
	return request, nil
}

type stubApprovals struct {
	approved map[uuid.UUID]bool
}

func (s stubApprovals) IsApproved(ctx context.Context, userID, storeID uuid.UUID) (bool, error) {
	return s.approved[storeID], nil
}
