// AngelaMos | 2026
// entity.go

package contact

import (
	"time"
)

type Contact struct {
	ID         string    `db:"id"`
	BusinessID string    `db:"business_id"`
	Name       string    `db:"name"`
	Number     *string   `db:"number"`
	IsCustomer bool      `db:"is_customer"`
	IsSupplier bool      `db:"is_supplier"`
	CreatedAt  time.Time `db:"created_at"`
}
