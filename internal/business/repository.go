// AngelaMos | 2026
// repository.go

package business

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rodolfoorg/mi-empresa-virtual/internal/core"
)

type Repository interface {
	Create(ctx context.Context, b *Business) error
	GetByID(ctx context.Context, id string) (*Business, error)
	GetByUserID(ctx context.Context, userID string) (*Business, error)
	Update(ctx context.Context, b *Business) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const businessColumns = `
	id, user_id, name, phone, province, municipality, street,
	house_number, description, business_type, is_public, created_at`

func (r *repository) Create(ctx context.Context, b *Business) error {
	query := `
		INSERT INTO businesses (
			id, user_id, name, phone, province, municipality, street,
			house_number, description, business_type, is_public
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &b.CreatedAt, query,
		b.ID,
		b.UserID,
		b.Name,
		b.Phone,
		b.Province,
		b.Municipality,
		b.Street,
		b.HouseNumber,
		b.Description,
		b.BusinessType,
		b.IsPublic,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create business: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create business: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE id = $1`

	var b Business
	err := r.db.GetContext(ctx, &b, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get business: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get business: %w", err)
	}

	return &b, nil
}

func (r *repository) GetByUserID(
	ctx context.Context,
	userID string,
) (*Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE user_id = $1`

	var b Business
	err := r.db.GetContext(ctx, &b, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get business by user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get business by user: %w", err)
	}

	return &b, nil
}

func (r *repository) Update(ctx context.Context, b *Business) error {
	query := `
		UPDATE businesses
		SET name = $2, phone = $3, province = $4, municipality = $5,
		    street = $6, house_number = $7, description = $8,
		    business_type = $9, is_public = $10
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		b.ID,
		b.Name,
		b.Phone,
		b.Province,
		b.Municipality,
		b.Street,
		b.HouseNumber,
		b.Description,
		b.BusinessType,
		b.IsPublic,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("update business: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update business: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update business: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update business: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM businesses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete business: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete business: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete business: %w", core.ErrNotFound)
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
