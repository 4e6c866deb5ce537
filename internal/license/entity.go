// AngelaMos | 2026
// entity.go

package license

import (
	"time"
)

const (
	PlanBasic    = "basic"
	PlanAdvanced = "advanced"
	PlanPro      = "pro"
)

type License struct {
	ID             string    `db:"id"`
	UserID         string    `db:"user_id"`
	Plan           string    `db:"plan"`
	StartDate      time.Time `db:"start_date"`
	ExpirationDate time.Time `db:"expiration_date"`
	Active         bool      `db:"active"`
	Notes          *string   `db:"notes"`
}

// IsValid reports whether the license currently admits write operations.
func (l *License) IsValid() bool {
	return l.Active && time.Now().Before(l.ExpirationDate)
}

const (
	RenewalPending  = "pending"
	RenewalApproved = "approved"
	RenewalRejected = "rejected"
)

type Renewal struct {
	ID              string     `db:"id"`
	UserID          string     `db:"user_id"`
	TransactionCode string     `db:"transaction_code"`
	DaysRequested   int        `db:"days_requested"`
	Status          string     `db:"status"`
	RequestedAt     time.Time  `db:"requested_at"`
	ProcessedAt     *time.Time `db:"processed_at"`
	Notes           *string    `db:"notes"`
}

func (r *Renewal) IsPending() bool {
	return r.Status == RenewalPending
}
