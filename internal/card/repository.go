// AngelaMos | 2026
// repository.go

package card

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rodolfoorg/mi-empresa-virtual/internal/core"
)

type Repository interface {
	Create(ctx context.Context, c *Card) error
	GetByID(ctx context.Context, businessID, id string) (*Card, error)
	List(ctx context.Context, businessID string) ([]Card, error)
	Update(ctx context.Context, c *Card) error
	Delete(ctx context.Context, businessID, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Card) error {
	query := `
		INSERT INTO cards (id, business_id, name, number, balance)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &c.CreatedAt, query,
		c.ID,
		c.BusinessID,
		c.Name,
		c.Number,
		c.Balance,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create card: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create card: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	businessID, id string,
) (*Card, error) {
	query := `
		SELECT id, business_id, name, number, balance, created_at
		FROM cards
		WHERE id = $1 AND business_id = $2`

	var c Card
	err := r.db.GetContext(ctx, &c, query, id, businessID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get card: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get card: %w", err)
	}

	return &c, nil
}

func (r *repository) List(
	ctx context.Context,
	businessID string,
) ([]Card, error) {
	query := `
		SELECT id, business_id, name, number, balance, created_at
		FROM cards
		WHERE business_id = $1
		ORDER BY name ASC`

	var cards []Card
	if err := r.db.SelectContext(ctx, &cards, query, businessID); err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}

	return cards, nil
}

func (r *repository) Update(ctx context.Context, c *Card) error {
	query := `
		UPDATE cards
		SET name = $3, number = $4, balance = $5
		WHERE id = $1 AND business_id = $2`

	result, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.BusinessID,
		c.Name,
		c.Number,
		c.Balance,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("update card: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update card: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update card: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, businessID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM cards WHERE id = $1 AND business_id = $2`,
		id, businessID)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete card: %w", core.ErrNotFound)
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
