// AngelaMos | 2026
// dto.go

package business

import (
	"time"
)

type CreateBusinessRequest struct {
	Name         string  `json:"name"          validate:"required,min=1,max=100"`
	Phone        *string `json:"phone"         validate:"omitempty,max=20"`
	Province     *string `json:"province"      validate:"omitempty,max=50"`
	Municipality *string `json:"municipality"  validate:"omitempty,max=50"`
	Street       *string `json:"street"        validate:"omitempty,max=100"`
	HouseNumber  *string `json:"house_number"  validate:"omitempty,max=20"`
	Description  *string `json:"description"   validate:"omitempty,max=500"`
	BusinessType *string `json:"business_type" validate:"omitempty,max=50"`
	IsPublic     bool    `json:"is_public"`
}

type UpdateBusinessRequest struct {
	Name         *string `json:"name"          validate:"omitempty,min=1,max=100"`
	Phone        *string `json:"phone"         validate:"omitempty,max=20"`
	Province     *string `json:"province"      validate:"omitempty,max=50"`
	Municipality *string `json:"municipality"  validate:"omitempty,max=50"`
	Street       *string `json:"street"        validate:"omitempty,max=100"`
	HouseNumber  *string `json:"house_number"  validate:"omitempty,max=20"`
	Description  *string `json:"description"   validate:"omitempty,max=500"`
	BusinessType *string `json:"business_type" validate:"omitempty,max=50"`
	IsPublic     *bool   `json:"is_public"`
}

type BusinessResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        *string   `json:"phone,omitempty"`
	Province     *string   `json:"province,omitempty"`
	Municipality *string   `json:"municipality,omitempty"`
	Street       *string   `json:"street,omitempty"`
	HouseNumber  *string   `json:"house_number,omitempty"`
	Description  *string   `json:"description,omitempty"`
	BusinessType *string   `json:"business_type,omitempty"`
	IsPublic     bool      `json:"is_public"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToBusinessResponse(b *Business) BusinessResponse {
	return BusinessResponse{
		ID:           b.ID,
		Name:         b.Name,
		Phone:        b.Phone,
		Province:     b.Province,
		Municipality: b.Municipality,
		Street:       b.Street,
		HouseNumber:  b.HouseNumber,
		Description:  b.Description,
		BusinessType: b.BusinessType,
		IsPublic:     b.IsPublic,
		CreatedAt:    b.CreatedAt,
	}
}
