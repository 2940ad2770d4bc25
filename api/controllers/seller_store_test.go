package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mallexplorer/sme-backend/api/middleware"
	productsvc "github.com/mallexplorer/sme-backend/internal/products"
	pkgerrors "github.com/mallexplorer/sme-backend/pkg/errors"
	"github.com/mallexplorer/sme-backend/pkg/logger"
)

type stubProductService struct {
	upsertErr error
	called    bool
	gotPatch  productsvc.UpsertOverrideRequest
}

func (s *stubProductService) UpsertOverride(ctx context.Context, actorID, storeID, productID uuid.UUID, req productsvc.UpsertOverrideRequest) (*productsvc.OverrideDTO, error) {
	s.called = true
	s.gotPatch = req
	if s.upsertErr != nil {
		return nil, s.upsertErr
	}
	return &productsvc.OverrideDTO{ProductID: productID, StoreID: storeID}, nil
}

func (s *stubProductService) ClearOverride(ctx context.Context, actorID, storeID, productID uuid.UUID) error {
	return nil
}

func (s *stubProductService) CreateCustomProduct(ctx context.Context, actorID, storeID uuid.UUID, req productsvc.CreateProductRequest) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (s *stubProductService) DeleteCustomProduct(ctx context.Context, actorID, storeID, productID uuid.UUID) error {
	panic("unimplemented")
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func overrideRequest(ctx context.Context, storeID, productID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/seller/stores/"+storeID+"/products/"+productID+"/override", strings.NewReader(body))
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("storeId", storeID)
	routeCtx.URLParams.Add("productId", productID)
	ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	return req.WithContext(ctx)
}

func TestOverrideUpsert(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()
	storeID := uuid.New()
	productID := uuid.New()

	t.Run("missing user", func(t *testing.T) {
		stub := &stubProductService{}
		req := overrideRequest(context.Background(), storeID.String(), productID.String(), `{"price_cents":1500}`)
		rec := httptest.NewRecorder()
		OverrideUpsert(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 when user missing, got %d", rec.Code)
		}
		if stub.called {
			t.Fatal("service must not be reached without a user")
		}
	})

	t.Run("invalid product id", func(t *testing.T) {
		stub := &stubProductService{}
		ctx := middleware.WithUserID(context.Background(), userID.String())
		req := overrideRequest(ctx, storeID.String(), "not-a-uuid", `{"price_cents":1500}`)
		rec := httptest.NewRecorder()
		OverrideUpsert(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid id, got %d", rec.Code)
		}
	})

	t.Run("unknown body field rejected", func(t *testing.T) {
		stub := &stubProductService{}
		ctx := middleware.WithUserID(context.Background(), userID.String())
		req := overrideRequest(ctx, storeID.String(), productID.String(), `{"price_cents":1500,"name":"smuggled"}`)
		rec := httptest.NewRecorder()
		OverrideUpsert(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
		}
		if stub.called {
			t.Fatal("service must not be reached on invalid body")
		}
	})

	t.Run("forbidden surfaces as 403", func(t *testing.T) {
		stub := &stubProductService{upsertErr: pkgerrors.New(pkgerrors.CodeForbidden, "not approved for this store")}
		ctx := middleware.WithUserID(context.Background(), userID.String())
		req := overrideRequest(ctx, storeID.String(), productID.String(), `{"price_cents":1500}`)
		rec := httptest.NewRecorder()
		OverrideUpsert(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		stub := &stubProductService{}
		ctx := middleware.WithUserID(context.Background(), userID.String())
		req := overrideRequest(ctx, storeID.String(), productID.String(), `{"price_cents":1500,"availability":"low_stock"}`)
		rec := httptest.NewRecorder()
		OverrideUpsert(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !stub.called {
			t.Fatal("expected UpsertOverride to be invoked")
		}
		if stub.gotPatch.PriceCents == nil || *stub.gotPatch.PriceCents != 1500 {
			t.Fatalf("expected price patch 1500, got %+v", stub.gotPatch.PriceCents)
		}
	})
}
