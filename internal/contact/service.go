// AngelaMos | 2026
// service.go

package contact

import (
	"context"

	"github.com/google/uuid"
)

type TenantResolver interface {
	BusinessIDForUser(ctx context.Context, userID string) (string, error)
}

type Service struct {
	repo    Repository
	tenants TenantResolver
}

func NewService(repo Repository, tenants TenantResolver) *Service {
	return &Service{
		repo:    repo,
		tenants: tenants,
	}
}

func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateContactRequest,
) (*Contact, error) {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	c := &Contact{
		ID:         uuid.NewString(),
		BusinessID: businessID,
		Name:       req.Name,
		Number:     req.Number,
		IsCustomer: req.IsCustomer,
		IsSupplier: req.IsSupplier,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, userID, contactID string) (*Contact, error) {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, businessID, contactID)
}

func (s *Service) List(ctx context.Context, userID string) ([]Contact, error) {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.repo.List(ctx, businessID)
}

func (s *Service) Update(
	ctx context.Context,
	userID, contactID string,
	req UpdateContactRequest,
) (*Contact, error) {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, businessID, contactID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Number != nil {
		c.Number = req.Number
	}
	if req.IsCustomer != nil {
		c.IsCustomer = *req.IsCustomer
	}
	if req.IsSupplier != nil {
		c.IsSupplier = *req.IsSupplier
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Delete(ctx context.Context, userID, contactID string) error {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return err
	}

	return s.repo.Delete(ctx, businessID, contactID)
}
