// AngelaMos | 2026
// entity.go

package business

import (
	"time"
)

type Business struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	Name         string    `db:"name"`
	Phone        *string   `db:"phone"`
	Province     *string   `db:"province"`
	Municipality *string   `db:"municipality"`
	Street       *string   `db:"street"`
	HouseNumber  *string   `db:"house_number"`
	Description  *string   `db:"description"`
	BusinessType *string   `db:"business_type"`
	IsPublic     bool      `db:"is_public"`
	CreatedAt    time.Time `db:"created_at"`
}
