// AngelaMos | 2026
// dto.go

package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Name          string          `json:"name"           validate:"required,min=1,max=100"`
	Description   *string         `json:"description"    validate:"omitempty,max=500"`
	Category      *string         `json:"category"       validate:"omitempty,max=50"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Stock         int             `json:"stock"          validate:"gte=0"`
	IsPublic      bool            `json:"is_public"`
}

type UpdateProductRequest struct {
	Name          *string          `json:"name"           validate:"omitempty,min=1,max=100"`
	Description   *string          `json:"description"    validate:"omitempty,max=500"`
	Category      *string          `json:"category"       validate:"omitempty,max=50"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	Stock         *int             `json:"stock"          validate:"omitempty,gte=0"`
	IsPublic      *bool            `json:"is_public"`
}

type ListProductsParams struct {
	Page     int
	PageSize int
	Search   string
	Category string
}

func (p *ListProductsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
}

func (p *ListProductsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	Category      *string         `json:"category,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Stock         int             `json:"stock"`
	IsPublic      bool            `json:"is_public"`
	CreatedAt     time.Time       `json:"created_at"`
}

func ToProductResponse(p *Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		Stock:         p.Stock,
		IsPublic:      p.IsPublic,
		CreatedAt:     p.CreatedAt,
	}
}

func ToProductResponseList(products []Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses
}
