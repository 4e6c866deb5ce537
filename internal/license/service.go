// AngelaMos | 2026
// service.go

package license

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rodolfoorg/mi-empresa-virtual/internal/config"
	"github.com/rodolfoorg/mi-empresa-virtual/internal/core"
)

type Service struct {
	repo   Repository
	cfg    config.LicenseConfig
	logger *slog.Logger
}

func NewService(
	repo Repository,
	cfg config.LicenseConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

// StartTrial creates the initial trial license for a newly registered user.
// It is a no-op when the user already holds a license.
func (s *Service) StartTrial(ctx context.Context, userID string) error {
	_, err := s.repo.GetByUserID(ctx, userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("start trial: %w", err)
	}

	now := time.Now().UTC()
	lic := &License{
		ID:             uuid.NewString(),
		UserID:         userID,
		Plan:           s.cfg.TrialPlan,
		StartDate:      now,
		ExpirationDate: now.AddDate(0, 0, s.cfg.TrialDays),
		Active:         true,
	}

	if err := s.repo.Create(ctx, lic); err != nil {
		// Concurrent registration already created one; keep that.
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil
		}
		return fmt.Errorf("start trial: %w", err)
	}

	s.logger.Info("trial license started",
		"user_id", userID,
		"plan", lic.Plan,
		"expires", lic.ExpirationDate,
	)

	return nil
}

// HasValidLicense reports whether the user may perform gated write
// operations. A user with no license row at all is simply unlicensed,
// not an error.
func (s *Service) HasValidLicense(ctx context.Context, userID string) (bool, error) {
	lic, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return lic.IsValid(), nil
}

// MaxProducts returns the product ceiling for the user's current plan.
// Zero means unlimited. Users without a license get the trial plan's
// ceiling so the gate stays consistent with what a fresh trial allows.
func (s *Service) MaxProducts(ctx context.Context, userID string) (int, error) {
	plan := s.cfg.TrialPlan

	lic, err := s.repo.GetByUserID(ctx, userID)
	if err == nil {
		plan = lic.Plan
	} else if !errors.Is(err, core.ErrNotFound) {
		return 0, err
	}

	limit, ok := s.cfg.PlanProductLimits[plan]
	if !ok {
		return 0, fmt.Errorf("plan %q has no product limit configured", plan)
	}

	return limit, nil
}

func (s *Service) GetForUser(ctx context.Context, userID string) (*LicenseResponse, error) {
	lic, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError("license")
	}
	if err != nil {
		return nil, err
	}

	maxProducts := s.cfg.PlanProductLimits[lic.Plan]

	return &LicenseResponse{
		ID:             lic.ID,
		Plan:           lic.Plan,
		StartDate:      lic.StartDate,
		ExpirationDate: lic.ExpirationDate,
		Active:         lic.Active,
		Valid:          lic.IsValid(),
		MaxProducts:    maxProducts,
	}, nil
}

func (s *Service) RequestRenewal(
	ctx context.Context,
	userID string,
	req RequestRenewalRequest,
) (*RenewalResponse, error) {
	pending, err := s.repo.ListRenewalsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range pending {
		if pending[i].IsPending() {
			return nil, core.ConflictError("a renewal request is already pending")
		}
	}

	renewal := &Renewal{
		ID:              uuid.NewString(),
		UserID:          userID,
		TransactionCode: req.TransactionCode,
		DaysRequested:   req.DaysRequested,
		Status:          RenewalPending,
	}

	if err := s.repo.CreateRenewal(ctx, renewal); err != nil {
		return nil, err
	}

	s.logger.Info("license renewal requested",
		"user_id", userID,
		"renewal_id", renewal.ID,
		"days", renewal.DaysRequested,
	)

	resp := ToRenewalResponse(renewal)
	return &resp, nil
}

func (s *Service) ListRenewalsForUser(
	ctx context.Context,
	userID string,
) ([]RenewalResponse, error) {
	renewals, err := s.repo.ListRenewalsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToRenewalResponseList(renewals), nil
}

func (s *Service) ListPendingRenewals(ctx context.Context) ([]RenewalResponse, error) {
	renewals, err := s.repo.ListRenewalsByStatus(ctx, RenewalPending)
	if err != nil {
		return nil, err
	}
	return ToRenewalResponseList(renewals), nil
}

// ProcessRenewal approves or rejects a pending renewal. Approval extends
// the license from whichever is later, now or the current expiration, so
// renewing early never loses paid days and renewing late never backdates.
func (s *Service) ProcessRenewal(
	ctx context.Context,
	renewalID string,
	req ProcessRenewalRequest,
) (*RenewalResponse, error) {
	renewal, err := s.repo.GetRenewalByID(ctx, renewalID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError("renewal")
	}
	if err != nil {
		return nil, err
	}

	if !renewal.IsPending() {
		return nil, core.ConflictError("renewal has already been processed")
	}

	now := time.Now().UTC()

	switch req.Action {
	case "approve":
		if err := s.applyRenewal(ctx, renewal, now); err != nil {
			return nil, err
		}
		renewal.Status = RenewalApproved
	case "reject":
		renewal.Status = RenewalRejected
		if req.RejectionReason != "" {
			reason := req.RejectionReason
			renewal.Notes = &reason
		}
	}

	renewal.ProcessedAt = &now

	if err := s.repo.UpdateRenewal(ctx, renewal); err != nil {
		return nil, err
	}

	s.logger.Info("license renewal processed",
		"renewal_id", renewal.ID,
		"user_id", renewal.UserID,
		"status", renewal.Status,
	)

	resp := ToRenewalResponse(renewal)
	return &resp, nil
}

func (s *Service) applyRenewal(
	ctx context.Context,
	renewal *Renewal,
	now time.Time,
) error {
	lic, err := s.repo.GetByUserID(ctx, renewal.UserID)
	if errors.Is(err, core.ErrNotFound) {
		// User somehow has no license row; approval creates one.
		lic = &License{
			ID:             uuid.NewString(),
			UserID:         renewal.UserID,
			Plan:           s.cfg.TrialPlan,
			StartDate:      now,
			ExpirationDate: now,
			Active:         true,
		}
		if err := s.repo.Create(ctx, lic); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	base := lic.ExpirationDate
	if base.Before(now) {
		base = now
	}

	lic.ExpirationDate = base.AddDate(0, 0, renewal.DaysRequested)
	lic.Active = true

	return s.repo.Update(ctx, lic)
}
