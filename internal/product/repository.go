// AngelaMos | 2026
// repository.go

package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rodolfoorg/mi-empresa-virtual/internal/core"
)

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, businessID, id string) (*Product, error)
	List(ctx context.Context, businessID string, params ListProductsParams) ([]Product, int, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, businessID, id string) error
	CountByBusiness(ctx context.Context, businessID string) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const productColumns = `
	id, business_id, name, description, category, purchase_price,
	sale_price, stock, is_public, created_at`

func (r *repository) Create(ctx context.Context, p *Product) error {
	query := `
		INSERT INTO products (
			id, business_id, name, description, category,
			purchase_price, sale_price, stock, is_public
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &p.CreatedAt, query,
		p.ID,
		p.BusinessID,
		p.Name,
		p.Description,
		p.Category,
		p.PurchasePrice,
		p.SalePrice,
		p.Stock,
		p.IsPublic,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create product: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	businessID, id string,
) (*Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1 AND business_id = $2`

	var p Product
	err := r.db.GetContext(ctx, &p, query, id, businessID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &p, nil
}

func (r *repository) List(
	ctx context.Context,
	businessID string,
	params ListProductsParams,
) ([]Product, int, error) {
	conditions := []string{"business_id = $1"}
	args := []any{businessID}
	argPos := 2

	if params.Search != "" {
		conditions = append(conditions,
			fmt.Sprintf("name ILIKE $%d", argPos))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argPos++
	}

	if params.Category != "" {
		conditions = append(conditions,
			fmt.Sprintf("category = $%d", argPos))
		args = append(args, params.Category)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM products WHERE ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE %s
		ORDER BY name ASC
		LIMIT $%d OFFSET $%d`,
		productColumns, where, argPos, argPos+1)
	args = append(args, params.PageSize, params.Offset())

	var products []Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	query := `
		UPDATE products
		SET name = $3, description = $4, category = $5,
		    purchase_price = $6, sale_price = $7, stock = $8, is_public = $9
		WHERE id = $1 AND business_id = $2`

	result, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.BusinessID,
		p.Name,
		p.Description,
		p.Category,
		p.PurchasePrice,
		p.SalePrice,
		p.Stock,
		p.IsPublic,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("update product: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update product: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, businessID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM products WHERE id = $1 AND business_id = $2`,
		id, businessID)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("delete product: %w", core.ErrReferenced)
		}
		return fmt.Errorf("delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete product: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) CountByBusiness(
	ctx context.Context,
	businessID string,
) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM products WHERE business_id = $1`, businessID)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}

	return count, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
