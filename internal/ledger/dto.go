// AngelaMos | 2026
// dto.go

package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type RegisterSaleRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	ContactID *string         `json:"contact_id" validate:"omitempty,uuid"`
	CardID    *string         `json:"card_id"    validate:"omitempty,uuid"`
	Quantity  int             `json:"quantity"   validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	IsCredit  bool            `json:"is_credit"`
}

type RegisterPurchaseRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	ContactID *string         `json:"contact_id" validate:"omitempty,uuid"`
	CardID    *string         `json:"card_id"    validate:"omitempty,uuid"`
	Quantity  int             `json:"quantity"   validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	IsCredit  bool            `json:"is_credit"`
}

type RegisterExpenseRequest struct {
	CardID      *string         `json:"card_id"     validate:"omitempty,uuid"`
	Amount      decimal.Decimal `json:"amount"`
	Category    *string         `json:"category"    validate:"omitempty,max=50"`
	Description *string         `json:"description" validate:"omitempty,max=500"`
}

type UndoPurchaseRequest struct {
	CardID *string `json:"card_id" validate:"omitempty,uuid"`
}

type UndoExpenseRequest struct {
	CardID *string `json:"card_id" validate:"omitempty,uuid"`
}

type ListParams struct {
	Page     int
	PageSize int
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type SaleResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	ContactID *string         `json:"contact_id,omitempty"`
	CardID    *string         `json:"card_id,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
	IsCredit  bool            `json:"is_credit"`
	CreatedAt time.Time       `json:"created_at"`
}

func ToSaleResponse(s *Sale) SaleResponse {
	return SaleResponse{
		ID:        s.ID,
		ProductID: s.ProductID,
		ContactID: s.ContactID,
		CardID:    s.CardID,
		Quantity:  s.Quantity,
		UnitPrice: s.UnitPrice,
		Total:     s.Total(),
		IsCredit:  s.IsCredit,
		CreatedAt: s.CreatedAt,
	}
}

func ToSaleResponseList(sales []Sale) []SaleResponse {
	responses := make([]SaleResponse, 0, len(sales))
	for i := range sales {
		responses = append(responses, ToSaleResponse(&sales[i]))
	}
	return responses
}

type PurchaseResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	ContactID *string         `json:"contact_id,omitempty"`
	CardID    *string         `json:"card_id,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
	IsCredit  bool            `json:"is_credit"`
	CreatedAt time.Time       `json:"created_at"`
}

func ToPurchaseResponse(p *Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:        p.ID,
		ProductID: p.ProductID,
		ContactID: p.ContactID,
		CardID:    p.CardID,
		Quantity:  p.Quantity,
		UnitPrice: p.UnitPrice,
		Total:     p.Total(),
		IsCredit:  p.IsCredit,
		CreatedAt: p.CreatedAt,
	}
}

func ToPurchaseResponseList(purchases []Purchase) []PurchaseResponse {
	responses := make([]PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		responses = append(responses, ToPurchaseResponse(&purchases[i]))
	}
	return responses
}

type ExpenseResponse struct {
	ID          string          `json:"id"`
	CardID      *string         `json:"card_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Category    *string         `json:"category,omitempty"`
	Description *string         `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func ToExpenseResponse(e *Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		CardID:      e.CardID,
		Amount:      e.Amount,
		Category:    e.Category,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

func ToExpenseResponseList(expenses []Expense) []ExpenseResponse {
	responses := make([]ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		responses = append(responses, ToExpenseResponse(&expenses[i]))
	}
	return responses
}
