// AngelaMos | 2026
// dto.go

package storefront

import (
	"time"

	"github.com/shopspring/decimal"
)

type CatalogParams struct {
	Page       int
	PageSize   int
	Search     string
	Category   string
	BusinessID string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	SortBy     string // price_asc, price_desc, name, newest
}

func (p *CatalogParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
	switch p.SortBy {
	case "price_asc", "price_desc", "name", "newest":
	default:
		p.SortBy = "name"
	}
}

func (p *CatalogParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type DirectoryParams struct {
	Page         int
	PageSize     int
	Search       string
	BusinessType string
	Province     string
	Municipality string
}

func (p *DirectoryParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
}

func (p *DirectoryParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type PublicProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  *string         `json:"description,omitempty"`
	Category     *string         `json:"category,omitempty"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	InStock      bool            `json:"in_stock"`
	BusinessID   string          `json:"business_id"`
	BusinessName string          `json:"business_name"`
}

func ToPublicProductResponse(p *PublicProduct) PublicProductResponse {
	return PublicProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		SalePrice:    p.SalePrice,
		InStock:      p.Stock > 0,
		BusinessID:   p.BusinessID,
		BusinessName: p.BusinessName,
	}
}

func ToPublicProductResponseList(products []PublicProduct) []PublicProductResponse {
	responses := make([]PublicProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToPublicProductResponse(&products[i]))
	}
	return responses
}

type PublicBusinessResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Phone        *string `json:"phone,omitempty"`
	Province     *string `json:"province,omitempty"`
	Municipality *string `json:"municipality,omitempty"`
	Description  *string `json:"description,omitempty"`
	BusinessType *string `json:"business_type,omitempty"`
}

func ToPublicBusinessResponse(b *PublicBusiness) PublicBusinessResponse {
	return PublicBusinessResponse{
		ID:           b.ID,
		Name:         b.Name,
		Phone:        b.Phone,
		Province:     b.Province,
		Municipality: b.Municipality,
		Description:  b.Description,
		BusinessType: b.BusinessType,
	}
}

func ToPublicBusinessResponseList(businesses []PublicBusiness) []PublicBusinessResponse {
	responses := make([]PublicBusinessResponse, 0, len(businesses))
	for i := range businesses {
		responses = append(responses, ToPublicBusinessResponse(&businesses[i]))
	}
	return responses
}

type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,gt=0"`
}

type CreateOrderRequest struct {
	BusinessID           string             `json:"business_id"           validate:"required,uuid"`
	CustomerName         string             `json:"customer_name"         validate:"required,min=1,max=100"`
	CustomerPhone        string             `json:"customer_phone"        validate:"required,min=1,max=20"`
	DeliveryType         string             `json:"delivery_type"         validate:"required,oneof=delivery pickup"`
	DeliveryAddress      *string            `json:"delivery_address"      validate:"omitempty,max=200"`
	DeliveryMunicipality *string            `json:"delivery_municipality" validate:"omitempty,max=50"`
	DeliveryNotes        *string            `json:"delivery_notes"        validate:"omitempty,max=500"`
	PickupTime           *time.Time         `json:"pickup_time"`
	Items                []OrderItemRequest `json:"items"                 validate:"required,min=1,max=50,dive"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

type OrderItemResponse struct {
	ProductID   *string         `json:"product_id,omitempty"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type OrderResponse struct {
	ID                   string              `json:"id"`
	TrackingCode         string              `json:"tracking_code"`
	CustomerName         string              `json:"customer_name"`
	CustomerPhone        string              `json:"customer_phone"`
	DeliveryType         string              `json:"delivery_type"`
	DeliveryAddress      *string             `json:"delivery_address,omitempty"`
	DeliveryMunicipality *string             `json:"delivery_municipality,omitempty"`
	DeliveryNotes        *string             `json:"delivery_notes,omitempty"`
	PickupTime           *time.Time          `json:"pickup_time,omitempty"`
	Status               string              `json:"status"`
	TotalAmount          decimal.Decimal     `json:"total_amount"`
	CreatedAt            time.Time           `json:"created_at"`
	Items                []OrderItemResponse `json:"items,omitempty"`
}

func ToOrderResponse(o *Order, items []OrderItem) OrderResponse {
	resp := OrderResponse{
		ID:                   o.ID,
		TrackingCode:         o.TrackingCode,
		CustomerName:         o.CustomerName,
		CustomerPhone:        o.CustomerPhone,
		DeliveryType:         o.DeliveryType,
		DeliveryAddress:      o.DeliveryAddress,
		DeliveryMunicipality: o.DeliveryMunicipality,
		DeliveryNotes:        o.DeliveryNotes,
		PickupTime:           o.PickupTime,
		Status:               o.Status,
		TotalAmount:          o.TotalAmount,
		CreatedAt:            o.CreatedAt,
	}

	for i := range items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ProductID:   items[i].ProductID,
			ProductName: items[i].ProductName,
			Quantity:    items[i].Quantity,
			UnitPrice:   items[i].UnitPrice,
		})
	}

	return resp
}

func ToOrderResponseList(orders []Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToOrderResponse(&orders[i], nil))
	}
	return responses
}
