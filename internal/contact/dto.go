// AngelaMos | 2026
// dto.go

package contact

import (
	"time"
)

type CreateContactRequest struct {
	Name       string  `json:"name"        validate:"required,min=1,max=100"`
	Number     *string `json:"number"      validate:"omitempty,max=30"`
	IsCustomer bool    `json:"is_customer"`
	IsSupplier bool    `json:"is_supplier"`
}

type UpdateContactRequest struct {
	Name       *string `json:"name"        validate:"omitempty,min=1,max=100"`
	Number     *string `json:"number"      validate:"omitempty,max=30"`
	IsCustomer *bool   `json:"is_customer"`
	IsSupplier *bool   `json:"is_supplier"`
}

type ContactResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Number     *string   `json:"number,omitempty"`
	IsCustomer bool      `json:"is_customer"`
	IsSupplier bool      `json:"is_supplier"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToContactResponse(c *Contact) ContactResponse {
	return ContactResponse{
		ID:         c.ID,
		Name:       c.Name,
		Number:     c.Number,
		IsCustomer: c.IsCustomer,
		IsSupplier: c.IsSupplier,
		CreatedAt:  c.CreatedAt,
	}
}

func ToContactResponseList(contacts []Contact) []ContactResponse {
	responses := make([]ContactResponse, 0, len(contacts))
	for i := range contacts {
		responses = append(responses, ToContactResponse(&contacts[i]))
	}
	return responses
}
