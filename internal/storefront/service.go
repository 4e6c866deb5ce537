// AngelaMos | 2026
// service.go

package storefront

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rodolfoorg/mi-empresa-virtual/internal/core"
)

// TenantResolver maps an owner to their business for the private
// order-management endpoints.
type TenantResolver interface {
	BusinessIDForUser(ctx context.Context, userID string) (string, error)
}

// OrderNotifier is told about new orders after they commit.
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, businessID, orderID, trackingCode string)
}

type Service struct {
	repo     Repository
	tenants  TenantResolver
	notifier OrderNotifier
}

func NewService(repo Repository, tenants TenantResolver, notifier OrderNotifier) *Service {
	return &Service{
		repo:     repo,
		tenants:  tenants,
		notifier: notifier,
	}
}

func (s *Service) ListProducts(
	ctx context.Context,
	params CatalogParams,
) ([]PublicProduct, int, error) {
	params.Normalize()
	return s.repo.ListPublicProducts(ctx, params)
}

func (s *Service) ListBusinesses(
	ctx context.Context,
	params DirectoryParams,
) ([]PublicBusiness, int, error) {
	params.Normalize()
	return s.repo.ListPublicBusinesses(ctx, params)
}

func (s *Service) GetBusiness(ctx context.Context, id string) (*PublicBusiness, error) {
	return s.repo.GetPublicBusiness(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]string, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) ListBusinessTypes(ctx context.Context) ([]string, error) {
	return s.repo.ListBusinessTypes(ctx)
}

// CreateOrder snapshots each product's name and current sale price,
// computes the total server-side, and writes order plus items in a
// single transaction. A delivery order needs an address; a pickup
// order does not.
func (s *Service) CreateOrder(
	ctx context.Context,
	req CreateOrderRequest,
) (*Order, []OrderItem, error) {
	if req.DeliveryType == DeliveryTypeDelivery && req.DeliveryAddress == nil {
		return nil, nil, core.BadRequestError("delivery orders need an address")
	}

	if _, err := s.repo.GetPublicBusiness(ctx, req.BusinessID); err != nil {
		return nil, nil, err
	}

	order := &Order{
		ID:                   uuid.NewString(),
		BusinessID:           req.BusinessID,
		TrackingCode:         newTrackingCode(),
		CustomerName:         req.CustomerName,
		CustomerPhone:        req.CustomerPhone,
		DeliveryType:         req.DeliveryType,
		DeliveryAddress:      req.DeliveryAddress,
		DeliveryMunicipality: req.DeliveryMunicipality,
		DeliveryNotes:        req.DeliveryNotes,
		PickupTime:           req.PickupTime,
		Status:               OrderPending,
		TotalAmount:          decimal.Zero,
	}

	items := make([]OrderItem, 0, len(req.Items))
	for _, ir := range req.Items {
		product, err := s.repo.ProductForOrder(ctx, req.BusinessID, ir.ProductID)
		if err != nil {
			return nil, nil, err
		}

		productID := product.ID
		items = append(items, OrderItem{
			ID:          uuid.NewString(),
			OrderID:     order.ID,
			ProductID:   &productID,
			ProductName: product.Name,
			Quantity:    ir.Quantity,
			UnitPrice:   product.SalePrice,
		})

		lineTotal := product.SalePrice.Mul(decimal.NewFromInt(int64(ir.Quantity)))
		order.TotalAmount = order.TotalAmount.Add(lineTotal)
	}

	if err := s.repo.CreateOrder(ctx, order, items); err != nil {
		return nil, nil, fmt.Errorf("create order: %w", err)
	}

	s.notifier.OrderPlaced(ctx, order.BusinessID, order.ID, order.TrackingCode)

	return order, items, nil
}

func (s *Service) TrackOrder(
	ctx context.Context,
	trackingCode string,
) (*Order, []OrderItem, error) {
	return s.repo.GetOrderByTrackingCode(ctx, trackingCode)
}

func (s *Service) ListOrders(
	ctx context.Context,
	userID, status string,
	page, pageSize int,
) ([]Order, int, error) {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	if status != "" && !validOrderStatus(status) {
		return nil, 0, core.BadRequestError("unknown order status")
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return s.repo.ListOrdersForBusiness(ctx, businessID, status, page, pageSize)
}

func (s *Service) GetOrder(
	ctx context.Context,
	userID, orderID string,
) (*Order, []OrderItem, error) {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	return s.repo.GetOrder(ctx, businessID, orderID)
}

func (s *Service) UpdateOrderStatus(
	ctx context.Context,
	userID, orderID, status string,
) error {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return err
	}

	if !validOrderStatus(status) {
		return core.BadRequestError("unknown order status")
	}

	return s.repo.UpdateOrderStatus(ctx, businessID, orderID, status)
}

const trackingAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// newTrackingCode builds a short human-readable code like PED-7KQ2M9XC.
// The alphabet drops 0/O/1/I to keep it unambiguous over the phone.
func newTrackingCode() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform is broken
		panic(fmt.Sprintf("read random: %v", err))
	}

	for i := range buf {
		buf[i] = trackingAlphabet[int(buf[i])%len(trackingAlphabet)]
	}

	return "PED-" + string(buf)
}

// LogOrderNotifier logs new orders; it stands in for customer-facing
// delivery like mail or push.
type LogOrderNotifier struct {
	logger *slog.Logger
}

func NewLogOrderNotifier(logger *slog.Logger) *LogOrderNotifier {
	return &LogOrderNotifier{logger: logger}
}

func (n *LogOrderNotifier) OrderPlaced(
	_ context.Context,
	businessID, orderID, trackingCode string,
) {
	n.logger.Info("order placed",
		"business_id", businessID,
		"order_id", orderID,
		"tracking_code", trackingCode,
	)
}
