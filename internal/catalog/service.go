package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mallexplorer/sme-backend/pkg/db/models"
	"github.com/mallexplorer/sme-backend/pkg/enums"
	pkgerrors "github.com/mallexplorer/sme-backend/pkg/errors"
	"github.com/mallexplorer/sme-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxSearchResults = 25

// MallDetail pairs a mall with its stores.
type MallDetail struct {
	Mall   MallDTO    `json:"mall"`
	Stores []StoreDTO `json:"stores"`
}

// StoreDetail pairs a store with its products, overrides applied.
type StoreDetail struct {
	Store    StoreDTO     `json:"store"`
	Products []ProductDTO `json:"products"`
}

// Service defines the read side of the catalog.
type Service interface {
	ListMalls(ctx context.Context) ([]MallDTO, error)
	GetMall(ctx context.Context, id uuid.UUID) (*MallDetail, error)
	GetStore(ctx context.Context, id uuid.UUID) (*StoreDetail, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Search(ctx context.Context, query string) ([]ProductDTO, error)
	ProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]ProductDTO, error)
}

type service struct {
	repo     catalogRepository
	trending trendingBumper
	logg     *logger.Logger
}

type catalogRepository interface {
	ListMalls(ctx context.Context) ([]models.Mall, error)
	FindMall(ctx context.Context, id uuid.UUID) (*models.Mall, error)
	ListStoresByMall(ctx context.Context, mallID uuid.UUID) ([]models.Store, error)
	FindStore(ctx context.Context, id uuid.UUID) (*models.Store, error)
	ListProductsByStore(ctx context.Context, storeID uuid.UUID) ([]models.Product, error)
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	SearchProducts(ctx context.Context, query string, limit int) ([]models.Product, error)
	OverrideForProduct(ctx context.Context, productID uuid.UUID) (*models.ProductOverride, error)
	OverridesForStore(ctx context.Context, storeID uuid.UUID) (map[uuid.UUID]models.ProductOverride, error)
	OverridesForProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]models.ProductOverride, error)
}

type trendingBumper interface {
	Bump(ctx context.Context, entity enums.EntityType, id uuid.UUID) error
}

// ServiceParams bundles catalog dependencies.
type ServiceParams struct {
	Repo     catalogRepository
	Trending trendingBumper
	Logger   *logger.Logger
}

// NewService constructs the catalog read service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	if params.Trending == nil {
		return nil, fmt.Errorf("trending bumper is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		repo:     params.Repo,
		trending: params.Trending,
		logg:     params.Logger,
	}, nil
}

func (s *service) ListMalls(ctx context.Context) ([]MallDTO, error) {
	malls, err := s.repo.ListMalls(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list malls")
	}
	return mallsFromModels(malls), nil
}

func (s *service) GetMall(ctx context.Context, id uuid.UUID) (*MallDetail, error) {
	mall, err := s.repo.FindMall(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "mall not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load mall")
	}

	stores, err := s.repo.ListStoresByMall(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list stores")
	}

	s.bump(ctx, enums.EntityTypeMall, id)
	return &MallDetail{
		Mall:   *mallFromModel(mall),
		Stores: storesFromModels(stores),
	}, nil
}

func (s *service) GetStore(ctx context.Context, id uuid.UUID) (*StoreDetail, error) {
	store, err := s.repo.FindStore(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load store")
	}

	products, err := s.repo.ListProductsByStore(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	overrides, err := s.repo.OverridesForStore(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load overrides")
	}

	s.bump(ctx, enums.EntityTypeStore, id)
	return &StoreDetail{
		Store:    *storeFromModel(store),
		Products: overlay(products, overrides),
	}, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	override, err := s.repo.OverrideForProduct(ctx, id)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load override")
	}

	s.bump(ctx, enums.EntityTypeProduct, id)
	return productFromModel(product, override), nil
}

func (s *service) Search(ctx context.Context, query string) ([]ProductDTO, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query must be at least 2 characters")
	}

	products, err := s.repo.SearchProducts(ctx, query, maxSearchResults)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search products")
	}
	return s.withOverrides(ctx, products)
}

func (s *service) ProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]ProductDTO, error) {
	products, err := s.repo.ListProductsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load products")
	}
	return s.withOverrides(ctx, products)
}

func (s *service) withOverrides(ctx context.Context, products []models.Product) ([]ProductDTO, error) {
	ids := make([]uuid.UUID, 0, len(products))
	for _, product := range products {
		ids = append(ids, product.ID)
	}
	overrides, err := s.repo.OverridesForProducts(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load overrides")
	}
	return overlay(products, overrides), nil
}

// bump records a view for trending. Failures are logged and swallowed:
// trending is advisory, browsing never depends on it.
func (s *service) bump(ctx context.Context, entity enums.EntityType, id uuid.UUID) {
	if err := s.trending.Bump(ctx, entity, id); err != nil {
		ctx = s.logg.WithField(ctx, "entity_id", id.String())
		s.logg.Warn(ctx, "trending bump failed: "+entity.String())
	}
}

func overlay(products []models.Product, overrides map[uuid.UUID]models.ProductOverride) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		product := &products[i]
		var override *models.ProductOverride
		if match, ok := overrides[product.ID]; ok {
			override = &match
		}
		out = append(out, *productFromModel(product, override))
	}
	return out
}
