// AngelaMos | 2026
// dto.go

package license

import (
	"time"
)

type LicenseResponse struct {
	ID             string    `json:"id"`
	Plan           string    `json:"plan"`
	StartDate      time.Time `json:"start_date"`
	ExpirationDate time.Time `json:"expiration_date"`
	Active         bool      `json:"active"`
	Valid          bool      `json:"valid"`
	MaxProducts    int       `json:"max_products"`
}

type RequestRenewalRequest struct {
	TransactionCode string `json:"transaction_code" validate:"required,min=1,max=100"`
	DaysRequested   int    `json:"days_requested"   validate:"required,gt=0,max=365"`
}

type ProcessRenewalRequest struct {
	Action          string `json:"action"           validate:"required,oneof=approve reject"`
	RejectionReason string `json:"rejection_reason" validate:"omitempty,max=500"`
}

type RenewalResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	TransactionCode string     `json:"transaction_code"`
	DaysRequested   int        `json:"days_requested"`
	Status          string     `json:"status"`
	RequestedAt     time.Time  `json:"requested_at"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

func ToRenewalResponse(r *Renewal) RenewalResponse {
	return RenewalResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		TransactionCode: r.TransactionCode,
		DaysRequested:   r.DaysRequested,
		Status:          r.Status,
		RequestedAt:     r.RequestedAt,
		ProcessedAt:     r.ProcessedAt,
		Notes:           r.Notes,
	}
}

func ToRenewalResponseList(renewals []Renewal) []RenewalResponse {
	responses := make([]RenewalResponse, 0, len(renewals))
	for _, r := range renewals {
		responses = append(responses, ToRenewalResponse(&r))
	}
	return responses
}
