// AngelaMos | 2026
// service.go

package card

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rodolfoorg/mi-empresa-virtual/internal/core"
)

type LicenseGate interface {
	HasValidLicense(ctx context.Context, userID string) (bool, error)
}

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
	req CreateCardRequest,
) (*Card, error) {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.requireLicense(ctx, userID); err != nil {
		return nil, err
	}

	if req.Balance.IsNegative() {
		return nil, core.BadRequestError("balance must not be negative")
	}

	c := &Card{
		ID:         uuid.NewString(),
		BusinessID: businessID,
		Name:       req.Name,
		Number:     req.Number,
		Balance:    req.Balance,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("card name")
		}
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, userID, cardID string) (*Card, error) {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, businessID, cardID)
}

func (s *Service) List(ctx context.Context, userID string) ([]Card, error) {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.repo.List(ctx, businessID)
}

func (s *Service) Update(
	ctx context.Context,
	userID, cardID string,
	req UpdateCardRequest,
) (*Card, error) {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.requireLicense(ctx, userID); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, businessID, cardID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Number != nil {
		c.Number = req.Number
	}
	if req.Balance != nil {
		if req.Balance.IsNegative() {
			return nil, core.BadRequestError("balance must not be negative")
		}
		c.Balance = *req.Balance
	}

	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("card name")
		}
		return nil, err
	}

	return c, nil
}

func (s *Service) Delete(ctx context.Context, userID, cardID string) error {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.requireLicense(ctx, userID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, businessID, cardID)
}

func (s *Service) requireLicense(ctx context.Context, userID string) error {
	valid, err := s.licenses.HasValidLicense(ctx, userID)
	if err != nil {
		return fmt.Errorf("check license: %w", err)
	}
	if !valid {
		return core.ErrLicenseExpired
	}
	return nil
}
