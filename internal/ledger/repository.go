// AngelaMos | 2026
// repository.go

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/rodolfoorg/mi-empresa-virtual/internal/core"
)

// Store is the ledger's persistence boundary. InTx runs fn against a
// Store bound to a single transaction; any error aborts it with no
// partial writes. Lock methods take row locks held until commit.
type Store interface {
	InTx(ctx context.Context, fn func(Store) error) error

	LockProduct(ctx context.Context, businessID, productID string) (*ProductRow, error)
	LockCard(ctx context.Context, businessID, cardID string) (*CardRow, error)
	SetProductStock(ctx context.Context, productID string, stock int) error
	SetCardBalance(ctx context.Context, cardID string, balance decimal.Decimal) error

	InsertSale(ctx context.Context, s *Sale) error
	GetSale(ctx context.Context, businessID, id string) (*Sale, error)
	ListSales(ctx context.Context, businessID string, params ListParams) ([]Sale, int, error)
	DeleteSale(ctx context.Context, id string) error

	InsertPurchase(ctx context.Context, p *Purchase) error
	GetPurchase(ctx context.Context, businessID, id string) (*Purchase, error)
	ListPurchases(ctx context.Context, businessID string, params ListParams) ([]Purchase, int, error)
	DeletePurchase(ctx context.Context, id string) error

	InsertExpense(ctx context.Context, e *Expense) error
	GetExpense(ctx context.Context, businessID, id string) (*Expense, error)
	ListExpenses(ctx context.Context, businessID string, params ListParams) ([]Expense, int, error)
	DeleteExpense(ctx context.Context, id string) error
}

type sqlStore struct {
	root *sqlx.DB
	db   core.DBTX
}

func NewStore(db *sqlx.DB) Store {
	return &sqlStore{root: db, db: db}
}

func (s *sqlStore) InTx(ctx context.Context, fn func(Store) error) error {
	return core.InTx(ctx, s.root, func(tx *sqlx.Tx) error {
		return fn(&sqlStore{root: s.root, db: tx})
	})
}

// LockProduct takes a FOR UPDATE lock. Callers that also lock a card
// must lock the product first; the fixed order keeps concurrent
// registrations deadlock-free.
func (s *sqlStore) LockProduct(
	ctx context.Context,
	businessID, productID string,
) (*ProductRow, error) {
	query := `
		SELECT id, name, stock
		FROM products
		WHERE id = $1 AND business_id = $2
		FOR UPDATE`

	var row ProductRow
	err := s.db.GetContext(ctx, &row, query, productID, businessID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock product: %w", err)
	}

	return &row, nil
}

func (s *sqlStore) LockCard(
	ctx context.Context,
	businessID, cardID string,
) (*CardRow, error) {
	query := `
		SELECT id, name, balance
		FROM cards
		WHERE id = $1 AND business_id = $2
		FOR UPDATE`

	var row CardRow
	err := s.db.GetContext(ctx, &row, query, cardID, businessID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock card: %w", err)
	}

	return &row, nil
}

func (s *sqlStore) SetProductStock(
	ctx context.Context,
	productID string,
	stock int,
) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE products SET stock = $2 WHERE id = $1`, productID, stock)
	if err != nil {
		return fmt.Errorf("set product stock: %w", err)
	}
	return nil
}

func (s *sqlStore) SetCardBalance(
	ctx context.Context,
	cardID string,
	balance decimal.Decimal,
) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE cards SET balance = $2 WHERE id = $1`, cardID, balance)
	if err != nil {
		return fmt.Errorf("set card balance: %w", err)
	}
	return nil
}

const saleColumns = `
	id, business_id, product_id, contact_id, card_id, quantity,
	unit_price, is_credit, created_at`

func (s *sqlStore) InsertSale(ctx context.Context, sale *Sale) error {
	query := `
		INSERT INTO sales (
			id, business_id, product_id, contact_id, card_id,
			quantity, unit_price, is_credit
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err := s.db.GetContext(ctx, &sale.CreatedAt, query,
		sale.ID,
		sale.BusinessID,
		sale.ProductID,
		sale.ContactID,
		sale.CardID,
		sale.Quantity,
		sale.UnitPrice,
		sale.IsCredit,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	return nil
}

func (s *sqlStore) GetSale(
	ctx context.Context,
	businessID, id string,
) (*Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE id = $1 AND business_id = $2`

	var sale Sale
	err := s.db.GetContext(ctx, &sale, query, id, businessID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSaleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get sale: %w", err)
	}

	return &sale, nil
}

func (s *sqlStore) ListSales(
	ctx context.Context,
	businessID string,
	params ListParams,
) ([]Sale, int, error) {
	var total int
	err := s.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM sales WHERE business_id = $1`, businessID)
	if err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE business_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var sales []Sale
	err = s.db.SelectContext(ctx, &sales, query,
		businessID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}

	return sales, total, nil
}

func (s *sqlStore) DeleteSale(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return nil
}

const purchaseColumns = `
	id, business_id, product_id, contact_id, card_id, quantity,
	unit_price, is_credit, created_at`

func (s *sqlStore) InsertPurchase(ctx context.Context, p *Purchase) error {
	query := `
		INSERT INTO purchases (
			id, business_id, product_id, contact_id, card_id,
			quantity, unit_price, is_credit
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err := s.db.GetContext(ctx, &p.CreatedAt, query,
		p.ID,
		p.BusinessID,
		p.ProductID,
		p.ContactID,
		p.CardID,
		p.Quantity,
		p.UnitPrice,
		p.IsCredit,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}

	return nil
}

func (s *sqlStore) GetPurchase(
	ctx context.Context,
	businessID, id string,
) (*Purchase, error) {
	query := `
		SELECT ` + purchaseColumns + `
		FROM purchases
		WHERE id = $1 AND business_id = $2`

	var p Purchase
	err := s.db.GetContext(ctx, &p, query, id, businessID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPurchaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get purchase: %w", err)
	}

	return &p, nil
}

func (s *sqlStore) ListPurchases(
	ctx context.Context,
	businessID string,
	params ListParams,
) ([]Purchase, int, error) {
	var total int
	err := s.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM purchases WHERE business_id = $1`, businessID)
	if err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}

	query := `
		SELECT ` + purchaseColumns + `
		FROM purchases
		WHERE business_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var purchases []Purchase
	err = s.db.SelectContext(ctx, &purchases, query,
		businessID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}

	return purchases, total, nil
}

func (s *sqlStore) DeletePurchase(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	return nil
}

const expenseColumns = `
	id, business_id, card_id, amount, category, description, created_at`

func (s *sqlStore) InsertExpense(ctx context.Context, e *Expense) error {
	query := `
		INSERT INTO expenses (
			id, business_id, card_id, amount, category, description
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := s.db.GetContext(ctx, &e.CreatedAt, query,
		e.ID,
		e.BusinessID,
		e.CardID,
		e.Amount,
		e.Category,
		e.Description,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	return nil
}

func (s *sqlStore) GetExpense(
	ctx context.Context,
	businessID, id string,
) (*Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE id = $1 AND business_id = $2`

	var e Expense
	err := s.db.GetContext(ctx, &e, query, id, businessID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExpenseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}

	return &e, nil
}

func (s *sqlStore) ListExpenses(
	ctx context.Context,
	businessID string,
	params ListParams,
) ([]Expense, int, error) {
	var total int
	err := s.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM expenses WHERE business_id = $1`, businessID)
	if err != nil {
		return nil, 0, fmt.Errorf("count expenses: %w", err)
	}

	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE business_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var expenses []Expense
	err = s.db.SelectContext(ctx, &expenses, query,
		businessID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list expenses: %w", err)
	}

	return expenses, total, nil
}

func (s *sqlStore) DeleteExpense(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}
