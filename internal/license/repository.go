// AngelaMos | 2026
// repository.go

package license

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rodolfoorg/mi-empresa-virtual/internal/core"
)

type Repository interface {
	Create(ctx context.Context, lic *License) error
	GetByUserID(ctx context.Context, userID string) (*License, error)
	Update(ctx context.Context, lic *License) error

	CreateRenewal(ctx context.Context, renewal *Renewal) error
	GetRenewalByID(ctx context.Context, id string) (*Renewal, error)
	ListRenewalsForUser(ctx context.Context, userID string) ([]Renewal, error)
	ListRenewalsByStatus(ctx context.Context, status string) ([]Renewal, error)
	UpdateRenewal(ctx context.Context, renewal *Renewal) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, lic *License) error {
	query := `
		INSERT INTO licenses (
			id, user_id, plan, start_date, expiration_date, active, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		lic.ID,
		lic.UserID,
		lic.Plan,
		lic.StartDate,
		lic.ExpirationDate,
		lic.Active,
		lic.Notes,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create license: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create license: %w", err)
	}

	return nil
}

func (r *repository) GetByUserID(
	ctx context.Context,
	userID string,
) (*License, error) {
	query := `
		SELECT id, user_id, plan, start_date, expiration_date, active, notes
		FROM licenses
		WHERE user_id = $1`

	var lic License
	err := r.db.GetContext(ctx, &lic, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get license: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get license: %w", err)
	}

	return &lic, nil
}

func (r *repository) Update(ctx context.Context, lic *License) error {
	query := `
		UPDATE licenses
		SET plan = $2, expiration_date = $3, active = $4, notes = $5
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		lic.ID,
		lic.Plan,
		lic.ExpirationDate,
		lic.Active,
		lic.Notes,
	)
	if err != nil {
		return fmt.Errorf("update license: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update license: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update license: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) CreateRenewal(
	ctx context.Context,
	renewal *Renewal,
) error {
	query := `
		INSERT INTO license_renewals (
			id, user_id, transaction_code, days_requested, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING requested_at`

	err := r.db.GetContext(ctx, &renewal.RequestedAt, query,
		renewal.ID,
		renewal.UserID,
		renewal.TransactionCode,
		renewal.DaysRequested,
		renewal.Status,
		renewal.Notes,
	)
	if err != nil {
		return fmt.Errorf("create renewal: %w", err)
	}

	return nil
}

func (r *repository) GetRenewalByID(
	ctx context.Context,
	id string,
) (*Renewal, error) {
	query := `
		SELECT id, user_id, transaction_code, days_requested, status,
		       requested_at, processed_at, notes
		FROM license_renewals
		WHERE id = $1`

	var renewal Renewal
	err := r.db.GetContext(ctx, &renewal, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get renewal: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get renewal: %w", err)
	}

	return &renewal, nil
}

func (r *repository) ListRenewalsForUser(
	ctx context.Context,
	userID string,
) ([]Renewal, error) {
	query := `
		SELECT id, user_id, transaction_code, days_requested, status,
		       requested_at, processed_at, notes
		FROM license_renewals
		WHERE user_id = $1
		ORDER BY requested_at DESC`

	var renewals []Renewal
	if err := r.db.SelectContext(ctx, &renewals, query, userID); err != nil {
		return nil, fmt.Errorf("list renewals: %w", err)
	}

	return renewals, nil
}

func (r *repository) ListRenewalsByStatus(
	ctx context.Context,
	status string,
) ([]Renewal, error) {
	query := `
		SELECT id, user_id, transaction_code, days_requested, status,
		       requested_at, processed_at, notes
		FROM license_renewals
		WHERE status = $1
		ORDER BY requested_at ASC`

	var renewals []Renewal
	if err := r.db.SelectContext(ctx, &renewals, query, status); err != nil {
		return nil, fmt.Errorf("list renewals by status: %w", err)
	}

	return renewals, nil
}

func (r *repository) UpdateRenewal(
	ctx context.Context,
	renewal *Renewal,
) error {
	query := `
		UPDATE license_renewals
		SET status = $2, processed_at = $3, notes = $4
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		renewal.ID,
		renewal.Status,
		renewal.ProcessedAt,
		renewal.Notes,
	)
	if err != nil {
		return fmt.Errorf("update renewal: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update renewal: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update renewal: %w", core.ErrNotFound)
	}

	return nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
