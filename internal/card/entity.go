// AngelaMos | 2026
// entity.go

package card

import (
	"time"

	"github.com/shopspring/decimal"
)

type Card struct {
	ID         string          `db:"id"`
	BusinessID string          `db:"business_id"`
	Name       string          `db:"name"`
	Number     *string         `db:"number"`
	Balance    decimal.Decimal `db:"balance"`
	CreatedAt  time.Time       `db:"created_at"`
}
