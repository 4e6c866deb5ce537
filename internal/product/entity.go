// AngelaMos | 2026
// entity.go

package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            string          `db:"id"`
	BusinessID    string          `db:"business_id"`
	Name          string          `db:"name"`
	Description   *string         `db:"description"`
	Category      *string         `db:"category"`
	PurchasePrice decimal.Decimal `db:"purchase_price"`
	SalePrice     decimal.Decimal `db:"sale_price"`
	Stock         int             `db:"stock"`
	IsPublic      bool            `db:"is_public"`
	CreatedAt     time.Time       `db:"created_at"`
}
