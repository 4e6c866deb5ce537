// AngelaMos | 2026
// dto.go

package card

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateCardRequest struct {
	Name    string          `json:"name"    validate:"required,min=1,max=100"`
	Number  *string         `json:"number"  validate:"omitempty,max=30"`
	Balance decimal.Decimal `json:"balance"`
}

type UpdateCardRequest struct {
	Name    *string          `json:"name"    validate:"omitempty,min=1,max=100"`
	Number  *string          `json:"number"  validate:"omitempty,max=30"`
	Balance *decimal.Decimal `json:"balance"`
}

type CardResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Number    *string         `json:"number,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

func ToCardResponse(c *Card) CardResponse {
	return CardResponse{
		ID:        c.ID,
		Name:      c.Name,
		Number:    c.Number,
		Balance:   c.Balance,
		CreatedAt: c.CreatedAt,
	}
}

func ToCardResponseList(cards []Card) []CardResponse {
	responses := make([]CardResponse, 0, len(cards))
	for i := range cards {
		responses = append(responses, ToCardResponse(&cards[i]))
	}
	return responses
}
