package favorites

import (
	"context"
	"fmt"

	"github.com/mallexplorer/sme-backend/internal/catalog"
	pkgerrors "github.com/mallexplorer/sme-backend/pkg/errors"
	"github.com/google/uuid"
)

// Service manages a user's saved products.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]catalog.ProductDTO, error)
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
}

type service struct {
	repo     favoriteRepository
	products productReader
}

type favoriteRepository interface {
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	ListProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type productReader interface {
	ProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.ProductDTO, error)
}

// ServiceParams bundles the favorites dependencies.
type ServiceParams struct {
	Repo     favoriteRepository
	Products productReader
}

// NewService constructs the favorites service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("favorite repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product reader is required")
	}
	return &service{repo: params.Repo, products: params.Products}, nil
}

// List returns the saved products with overrides applied. Products that
// were deleted since saving silently drop out.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]catalog.ProductDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	ids, err := s.repo.ListProductIDs(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list favorites")
	}
	return s.products.ProductsByIDs(ctx, ids)
}

func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user and product ids are required")
	}

	found, err := s.products.ProductsByIDs(ctx, []uuid.UUID{productID})
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	if err := s.repo.Add(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save favorite")
	}
	return nil
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user and product ids are required")
	}
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove favorite")
	}
	return nil
}
