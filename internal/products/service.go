package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mallexplorer/sme-backend/pkg/db/models"
	"github.com/mallexplorer/sme-backend/pkg/enums"
	pkgerrors "github.com/mallexplorer/sme-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service covers seller mutations over a store's catalog. Every entry
// point re-checks the approval index; trusting the caller's token alone
// is not enough at the data boundary.
type Service interface {
	UpsertOverride(ctx context.Context, actorID, storeID, productID uuid.UUID, req UpsertOverrideRequest) (*OverrideDTO, error)
	ClearOverride(ctx context.Context, actorID, storeID, productID uuid.UUID) error
	CreateCustomProduct(ctx context.Context, actorID, storeID uuid.UUID, req CreateProductRequest) (*ProductDTO, error)
	DeleteCustomProduct(ctx context.Context, actorID, storeID, productID uuid.UUID) error
}

type service struct {
	repo      productRepository
	approvals approvalChecker
}

type productRepository interface {
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpsertOverride(ctx context.Context, override *models.ProductOverride) (*models.ProductOverride, error)
	DeleteOverride(ctx context.Context, productID uuid.UUID) error
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type approvalChecker interface {
	IsApproved(ctx context.Context, userID, storeID uuid.UUID) (bool, error)
}

// ServiceParams bundles the seller mutation dependencies.
type ServiceParams struct {
	Repo      productRepository
	Approvals approvalChecker
}

// NewService constructs the seller mutation service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.Approvals == nil {
		return nil, fmt.Errorf("approval checker is required")
	}
	return &service{
		repo:      params.Repo,
		approvals: params.Approvals,
	}, nil
}

func (s *service) UpsertOverride(ctx context.Context, actorID, storeID, productID uuid.UUID, req UpsertOverrideRequest) (*OverrideDTO, error) {
	if err := s.authorize(ctx, actorID, storeID); err != nil {
		return nil, err
	}
	if req.PriceCents == nil && req.Availability == nil && req.ImageURL == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "override must change at least one field")
	}
	if req.PriceCents != nil && *req.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if req.Availability != nil && !req.Availability.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid availability")
	}

	product, err := s.loadStoreProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	override, err := s.repo.UpsertOverride(ctx, &models.ProductOverride{
		ProductID:    product.ID,
		StoreID:      storeID,
		PriceCents:   req.PriceCents,
		Availability: req.Availability,
		ImageURL:     req.ImageURL,
		UpdatedBy:    actorID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "upsert override")
	}
	return overrideFromModel(override), nil
}

func (s *service) ClearOverride(ctx context.Context, actorID, storeID, productID uuid.UUID) error {
	if err := s.authorize(ctx, actorID, storeID); err != nil {
		return err
	}
	if _, err := s.loadStoreProduct(ctx, storeID, productID); err != nil {
		return err
	}
	if err := s.repo.DeleteOverride(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear override")
	}
	return nil
}

func (s *service) CreateCustomProduct(ctx context.Context, actorID, storeID uuid.UUID, req CreateProductRequest) (*ProductDTO, error) {
	if err := s.authorize(ctx, actorID, storeID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if req.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	availability := enums.AvailabilityInStock
	if req.Availability != nil {
		if !req.Availability.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid availability")
		}
		availability = *req.Availability
	}

	product, err := s.repo.CreateProduct(ctx, &models.Product{
		StoreID:      storeID,
		Name:         name,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		Availability: availability,
		ImageURL:     req.ImageURL,
		Tags:         req.Tags,
		CreatedBy:    &actorID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return productFromModel(product), nil
}

func (s *service) DeleteCustomProduct(ctx context.Context, actorID, storeID, productID uuid.UUID) error {
	if err := s.authorize(ctx, actorID, storeID); err != nil {
		return err
	}

	product, err := s.loadStoreProduct(ctx, storeID, productID)
	if err != nil {
		return err
	}
	if !product.IsCustom() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "seeded products cannot be deleted")
	}

	if err := s.repo.DeleteProduct(ctx, product.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
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

// loadStoreProduct resolves a product and pins it to the store in the
// URL. Products of other stores read as not found rather than forbidden.
func (s *service) loadStoreProduct(ctx context.Context, storeID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if product.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}
