// AngelaMos | 2026
// repository.go

package contact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rodolfoorg/mi-empresa-virtual/internal/core"
)

type Repository interface {
	Create(ctx context.Context, c *Contact) error
	GetByID(ctx context.Context, businessID, id string) (*Contact, error)
	List(ctx context.Context, businessID string) ([]Contact, error)
	Update(ctx context.Context, c *Contact) error
	Delete(ctx context.Context, businessID, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Contact) error {
	query := `
		INSERT INTO contacts (id, business_id, name, number, is_customer, is_supplier)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &c.CreatedAt, query,
		c.ID,
		c.BusinessID,
		c.Name,
		c.Number,
		c.IsCustomer,
		c.IsSupplier,
	)
	if err != nil {
		return fmt.Errorf("create contact: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	businessID, id string,
) (*Contact, error) {
	query := `
		SELECT id, business_id, name, number, is_customer, is_supplier, created_at
		FROM contacts
		WHERE id = $1 AND business_id = $2`

	var c Contact
	err := r.db.GetContext(ctx, &c, query, id, businessID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get contact: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}

	return &c, nil
}

func (r *repository) List(
	ctx context.Context,
	businessID string,
) ([]Contact, error) {
	query := `
		SELECT id, business_id, name, number, is_customer, is_supplier, created_at
		FROM contacts
		WHERE business_id = $1
		ORDER BY name ASC`

	var contacts []Contact
	if err := r.db.SelectContext(ctx, &contacts, query, businessID); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}

	return contacts, nil
}

func (r *repository) Update(ctx context.Context, c *Contact) error {
	query := `
		UPDATE contacts
		SET name = $3, number = $4, is_customer = $5, is_supplier = $6
		WHERE id = $1 AND business_id = $2`

	result, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.BusinessID,
		c.Name,
		c.Number,
		c.IsCustomer,
		c.IsSupplier,
	)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update contact: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, businessID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM contacts WHERE id = $1 AND business_id = $2`,
		id, businessID)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete contact: %w", core.ErrNotFound)
	}

	return nil
}
