package catalog

import (
	"context"
	"io"
	"testing"

	"github.com/mallexplorer/sme-backend/pkg/db/models"
	"github.com/mallexplorer/sme-backend/pkg/enums"
	pkgerrors "github.com/mallexplorer/sme-backend/pkg/errors"
	"github.com/mallexplorer/sme-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestServiceGetProductAppliesOverride(t *testing.T) {
	productID := uuid.New()
	storeID := uuid.New()
	overridePrice := 1500
	availability := enums.AvailabilityLowStock
	repo := &stubCatalogRepo{
		products: map[uuid.UUID]*models.Product{
			productID: {
				ID:           productID,
				StoreID:      storeID,
				Name:         "Trail Shell Jacket",
				PriceCents:   2000,
				Availability: enums.AvailabilityInStock,
			},
		},
		overrides: map[uuid.UUID]*models.ProductOverride{
			productID: {
				ProductID:    productID,
				StoreID:      storeID,
				PriceCents:   &overridePrice,
				Availability: &availability,
			},
		},
	}
	trending := &stubBumper{}
	svc := mustCatalogService(t, repo, trending)

	dto, err := svc.GetProduct(context.Background(), productID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if !dto.Overridden {
		t.Fatalf("expected overridden flag")
	}
	if dto.PriceCents != 1500 || dto.BasePriceCents != 2000 {
		t.Fatalf("expected override price over base, got %d/%d", dto.PriceCents, dto.BasePriceCents)
	}
	if !dto.Price.Equal(decimal.RequireFromString("15")) {
		t.Fatalf("expected 15.00 price, got %s", dto.Price)
	}
	if dto.PercentOff == nil || !dto.PercentOff.Equal(decimal.RequireFromString("25")) {
		t.Fatalf("expected 25 percent off, got %v", dto.PercentOff)
	}
	if dto.Availability != enums.AvailabilityLowStock {
		t.Fatalf("expected overridden availability, got %s", dto.Availability)
	}
	if len(trending.bumps) != 1 || trending.bumps[0].entity != enums.EntityTypeProduct {
		t.Fatalf("expected product trending bump, got %+v", trending.bumps)
	}
}

func TestServiceGetProductWithoutOverride(t *testing.T) {
	productID := uuid.New()
	repo := &stubCatalogRepo{
		products: map[uuid.UUID]*models.Product{
			productID: {ID: productID, Name: "Canvas Tote", PriceCents: 900, Availability: enums.AvailabilityInStock},
		},
	}
	svc := mustCatalogService(t, repo, &stubBumper{})

	dto, err := svc.GetProduct(context.Background(), productID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if dto.Overridden || dto.PercentOff != nil {
		t.Fatalf("expected untouched product, got %+v", dto)
	}
	if !dto.Price.Equal(decimal.RequireFromString("9")) {
		t.Fatalf("expected 9.00 price, got %s", dto.Price)
	}
}

func TestServiceGetProductNotFound(t *testing.T) {
	svc := mustCatalogService(t, &stubCatalogRepo{}, &stubBumper{})

	_, err := svc.GetProduct(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestServiceGetStoreBumpFailureIsSwallowed(t *testing.T) {
	storeID := uuid.New()
	repo := &stubCatalogRepo{
		stores: map[uuid.UUID]*models.Store{
			storeID: {ID: storeID, Name: "Trail & Peak"},
		},
	}
	svc := mustCatalogService(t, repo, &stubBumper{err: context.DeadlineExceeded})

	detail, err := svc.GetStore(context.Background(), storeID)
	if err != nil {
		t.Fatalf("get store: %v", err)
	}
	if detail.Store.Name != "Trail & Peak" {
		t.Fatalf("unexpected store %+v", detail.Store)
	}
}

func TestServiceSearchRejectsShortQuery(t *testing.T) {
	svc := mustCatalogService(t, &stubCatalogRepo{}, &stubBumper{})

	_, err := svc.Search(context.Background(), " a ")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func mustCatalogService(t *testing.T, repo catalogRepository, trending trendingBumper) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:     repo,
		Trending: trending,
		Logger:   logger.New(logger.Options{ServiceName: "catalog-test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

type stubCatalogRepo struct {
	malls     []models.Mall
	stores    map[uuid.UUID]*models.Store
	products  map[uuid.UUID]*models.Product
	overrides map[uuid.UUID]*models.ProductOverride
}

func (s *stubCatalogRepo) ListMalls(ctx context.Context) ([]models.Mall, error) {
	return s.malls, nil
}

func (s *stubCatalogRepo) FindMall(ctx context.Context, id uuid.UUID) (*models.Mall, error) {
	for i := range s.malls {
		if s.malls[i].ID == id {
			return &s.malls[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) ListStoresByMall(ctx context.Context, mallID uuid.UUID) ([]models.Store, error) {
	var out []models.Store
	for _, store := range s.stores {
		if store.MallID == mallID {
			out = append(out, *store)
		}
	}
	return out, nil
}

func (s *stubCatalogRepo) FindStore(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	if store, ok := s.stores[id]; ok {
		return store, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) ListProductsByStore(ctx context.Context, storeID uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, product := range s.products {
		if product.StoreID == storeID {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (s *stubCatalogRepo) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.products[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) ListProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if product, ok := s.products[id]; ok {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (s *stubCatalogRepo) SearchProducts(ctx context.Context, query string, limit int) ([]models.Product, error) {
	return nil, nil
}

func (s *stubCatalogRepo) OverrideForProduct(ctx context.Context, productID uuid.UUID) (*models.ProductOverride, error) {
	if override, ok := s.overrides[productID]; ok {
		return override, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) OverridesForStore(ctx context.Context, storeID uuid.UUID) (map[uuid.UUID]models.ProductOverride, error) {
	out := map[uuid.UUID]models.ProductOverride{}
	for id, override := range s.overrides {
		if override.StoreID == storeID {
			out[id] = *override
		}
	}
	return out, nil
}

func (s *stubCatalogRepo) OverridesForProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]models.ProductOverride, error) {
	out := map[uuid.UUID]models.ProductOverride{}
	for _, id := range productIDs {
		if override, ok := s.overrides[id]; ok {
			out[id] = *override
		}
	}
	return out, nil
}

type bumpCall struct {
	entity enums.EntityType
	id     uuid.UUID
}

type stubBumper struct {
	bumps []bumpCall
	err   error
}

func (s *stubBumper) Bump(ctx context.Context, entity enums.EntityType, id uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.bumps = append(s.bumps, bumpCall{entity: entity, id: id})
	return nil
}
