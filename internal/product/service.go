// AngelaMos | 2026
// service.go

package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rodolfoorg/mi-empresa-virtual/internal/core"
)

// LicenseGate answers whether a user may write, and how many products
// their plan admits. Zero max means unlimited.
type LicenseGate interface {
	HasValidLicense(ctx context.Context, userID string) (bool, error)
	MaxProducts(ctx context.Context, userID string) (int, error)
}

// TenantResolver maps a user to their business.
type TenantResolver interface {
	BusinessIDForUser(ctx context.Context, userID string) (string, error)
}

type Service struct {
	repo     Repository
	licenses LicenseGate
	tenants  TenantResolver
}

func NewService(repo Repository, licenses LicenseGate, tenants TenantResolver) *Service {
	return &Service{
		repo:     repo,
		licenses: licenses,
		tenants:  tenants,
	}
}

func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateProductRequest,
) (*Product, error) {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	valid, err := s.licenses.HasValidLicense(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check license: %w", err)
	}
	if !valid {
		return nil, core.ErrLicenseExpired
	}

	maxProducts, err := s.licenses.MaxProducts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve product limit: %w", err)
	}
	if maxProducts > 0 {
		count, err := s.repo.CountByBusiness(ctx, businessID)
		if err != nil {
			return nil, err
		}
		if count >= maxProducts {
			return nil, core.ForbiddenError(fmt.Sprintf(
				"plan limit reached: %d products", maxProducts))
		}
	}

	if req.SalePrice.IsNegative() || req.PurchasePrice.IsNegative() {
		return nil, core.BadRequestError("prices must not be negative")
	}

	p := &Product{
		ID:            uuid.NewString(),
		BusinessID:    businessID,
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		Stock:         req.Stock,
		IsPublic:      req.IsPublic,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("product name")
		}
		return nil, err
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, userID, productID string) (*Product, error) {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, businessID, productID)
}

func (s *Service) List(
	ctx context.Context,
	userID string,
	params ListProductsParams,
) ([]Product, int, error) {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	params.Normalize()
	return s.repo.List(ctx, businessID, params)
}

func (s *Service) Update(
	ctx context.Context,
	userID, productID string,
	req UpdateProductRequest,
) (*Product, error) {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	valid, err := s.licenses.HasValidLicense(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check license: %w", err)
	}
	if !valid {
		return nil, core.ErrLicenseExpired
	}

	p, err := s.repo.GetByID(ctx, businessID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Category != nil {
		p.Category = req.Category
	}
	if req.PurchasePrice != nil {
		if req.PurchasePrice.IsNegative() {
			return nil, core.BadRequestError("purchase_price must not be negative")
		}
		p.PurchasePrice = *req.PurchasePrice
	}
	if req.SalePrice != nil {
		if req.SalePrice.IsNegative() {
			return nil, core.BadRequestError("sale_price must not be negative")
		}
		p.SalePrice = *req.SalePrice
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.IsPublic != nil {
		p.IsPublic = *req.IsPublic
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("product name")
		}
		return nil, err
	}

	return p, nil
}

func (s *Service) Delete(ctx context.Context, userID, productID string) error {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return err
	}

	valid, err := s.licenses.HasValidLicense(ctx, userID)
	if err != nil {
		return fmt.Errorf("check license: %w", err)
	}
	if !valid {
		return core.ErrLicenseExpired
	}

	return s.repo.Delete(ctx, businessID, productID)
}
