// AngelaMos | 2026
// entity.go

package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an outbound movement: stock leaves, money comes in.
type Sale struct {
	ID         string          `db:"id"`
	BusinessID string          `db:"business_id"`
	ProductID  string          `db:"product_id"`
	ContactID  *string         `db:"contact_id"`
	CardID     *string         `db:"card_id"`
	Quantity   int             `db:"quantity"`
	UnitPrice  decimal.Decimal `db:"unit_price"`
	IsCredit   bool            `db:"is_credit"`
	CreatedAt  time.Time       `db:"created_at"`
}

func (s *Sale) Total() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

// Purchase is an inbound movement: stock arrives, money goes out.
type Purchase struct {
	ID         string          `db:"id"`
	BusinessID string          `db:"business_id"`
	ProductID  string          `db:"product_id"`
	ContactID  *string         `db:"contact_id"`
	CardID     *string         `db:"card_id"`
	Quantity   int             `db:"quantity"`
	UnitPrice  decimal.Decimal `db:"unit_price"`
	IsCredit   bool            `db:"is_credit"`
	CreatedAt  time.Time       `db:"created_at"`
}

func (p *Purchase) Total() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// Expense is money out with no stock movement.
type Expense struct {
	ID          string          `db:"id"`
	BusinessID  string          `db:"business_id"`
	CardID      *string         `db:"card_id"`
	Amount      decimal.Decimal `db:"amount"`
	Category    *string         `db:"category"`
	Description *string         `db:"description"`
	CreatedAt   time.Time       `db:"created_at"`
}

// ProductRow is the slice of a product the ledger locks and mutates.
type ProductRow struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Stock int    `db:"stock"`
}

// CardRow is the slice of a card the ledger locks and mutates.
type CardRow struct {
	ID      string          `db:"id"`
	Name    string          `db:"name"`
	Balance decimal.Decimal `db:"balance"`
}
