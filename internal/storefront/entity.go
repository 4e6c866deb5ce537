// AngelaMos | 2026
// entity.go

package storefront

import (
	"time"

	"github.com/shopspring/decimal"
)

// PublicProduct is a product row joined with its business for the
// public catalog. Only public products of public businesses with a
// live owner license appear.
type PublicProduct struct {
	ID           string          `db:"id"`
	Name         string          `db:"name"`
	Description  *string         `db:"description"`
	Category     *string         `db:"category"`
	SalePrice    decimal.Decimal `db:"sale_price"`
	Stock        int             `db:"stock"`
	BusinessID   string          `db:"business_id"`
	BusinessName string          `db:"business_name"`
}

type PublicBusiness struct {
	ID           string  `db:"id"`
	Name         string  `db:"name"`
	Phone        *string `db:"phone"`
	Province     *string `db:"province"`
	Municipality *string `db:"municipality"`
	Description  *string `db:"description"`
	BusinessType *string `db:"business_type"`
}

const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

const (
	DeliveryTypeDelivery = "delivery"
	DeliveryTypePickup   = "pickup"
)

type Order struct {
	ID                   string          `db:"id"`
	BusinessID           string          `db:"business_id"`
	TrackingCode         string          `db:"tracking_code"`
	CustomerName         string          `db:"customer_name"`
	CustomerPhone        string          `db:"customer_phone"`
	DeliveryType         string          `db:"delivery_type"`
	DeliveryAddress      *string         `db:"delivery_address"`
	DeliveryMunicipality *string         `db:"delivery_municipality"`
	DeliveryNotes        *string         `db:"delivery_notes"`
	PickupTime           *time.Time      `db:"pickup_time"`
	Status               string          `db:"status"`
	TotalAmount          decimal.Decimal `db:"total_amount"`
	CreatedAt            time.Time       `db:"created_at"`
}

type OrderItem struct {
	ID          string          `db:"id"`
	OrderID     string          `db:"order_id"`
	ProductID   *string         `db:"product_id"`
	ProductName string          `db:"product_name"`
	Quantity    int             `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
}

func validOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}
