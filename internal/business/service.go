// AngelaMos | 2026
// service.go

package business

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rodolfoorg/mi-empresa-virtual/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// BusinessIDForUser resolves the caller's tenant. Every tenant-scoped
// service routes through this so a user can never reach another
// business's rows.
func (s *Service) BusinessIDForUser(
	ctx context.Context,
	userID string,
) (string, error) {
	b, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return "", core.ErrNoBusiness
	}
	if err != nil {
		return "", err
	}

	return b.ID, nil
}

func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateBusinessRequest,
) (*Business, error) {
	_, err := s.repo.GetByUserID(ctx, userID)
	if err == nil {
		return nil, core.ConflictError("user already has a business")
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	b := &Business{
		ID:           uuid.NewString(),
		UserID:       userID,
		Name:         req.Name,
		Phone:        req.Phone,
		Province:     req.Province,
		Municipality: req.Municipality,
		Street:       req.Street,
		HouseNumber:  req.HouseNumber,
		Description:  req.Description,
		BusinessType: req.BusinessType,
		IsPublic:     req.IsPublic,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.ConflictError("user already has a business")
		}
		return nil, fmt.Errorf("create business: %w", err)
	}

	return b, nil
}

func (s *Service) GetMine(ctx context.Context, userID string) (*Business, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *Service) UpdateMine(
	ctx context.Context,
	userID string,
	req UpdateBusinessRequest,
) (*Business, error) {
	b, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		b.Name = *req.Name
	}
	if req.Phone != nil {
		b.Phone = req.Phone
	}
	if req.Province != nil {
		b.Province = req.Province
	}
	if req.Municipality != nil {
		b.Municipality = req.Municipality
	}
	if req.Street != nil {
		b.Street = req.Street
	}
	if req.HouseNumber != nil {
		b.HouseNumber = req.HouseNumber
	}
	if req.Description != nil {
		b.Description = req.Description
	}
	if req.BusinessType != nil {
		b.BusinessType = req.BusinessType
	}
	if req.IsPublic != nil {
		b.IsPublic = *req.IsPublic
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("update business: %w", err)
	}

	return b, nil
}

// DeleteMine removes the business and, through ON DELETE CASCADE,
// everything under it: products, cards, contacts, ledger rows, orders.
func (s *Service) DeleteMine(ctx context.Context, userID string) error {
	b, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	return s.repo.Delete(ctx, b.ID)
}
