package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/mallexplorer/sme-backend/api/middleware"
	usersvc "github.com/mallexplorer/sme-backend/internal/users"
)

type stubUserService struct {
	patched *usersvc.UpdateProfileRequest
}

func (s *stubUserService) GetProfile(ctx context.Context, userID uuid.UUID) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{ID: userID}, nil
}

func (s *stubUserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req usersvc.UpdateProfileRequest) (*usersvc.UserDTO, error) {
	s.patched = &req
	return &usersvc.UserDTO{ID: userID}, nil
}

func TestProfilePatch(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()

	patch := func(ctx context.Context, stub *stubUserService, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/me", strings.NewReader(body))
		req = req.WithContext(ctx)
		rec := httptest.NewRecorder()
		ProfilePatch(stub, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing user", func(t *testing.T) {
		rec := patch(context.Background(), &stubUserService{}, `{"name":"Ada"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("disallowed field rejected", func(t *testing.T) {
		stub := &stubUserService{}
		ctx := middleware.WithUserID(context.Background(), userID.String())
		rec := patch(ctx, stub, `{"name":"Ada","role":"admin"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for disallowed field, got %d", rec.Code)
		}
		if stub.patched != nil {
			t.Fatal("service must not see a rejected patch")
		}
	})

	t.Run("allowed fields pass through", func(t *testing.T) {
		stub := &stubUserService{}
		ctx := middleware.WithUserID(context.Background(), userID.String())
		rec := patch(ctx, stub, `{"name":"Ada","phone":"+15550100"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if stub.patched == nil || stub.patched.Name == nil || *stub.patched.Name != "Ada" {
			t.Fatalf("expected name patch, got %+v", stub.patched)
		}
	})
}
