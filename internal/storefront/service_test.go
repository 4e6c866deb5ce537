// AngelaMos | 2026
// service_test.go

package storefront

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodolfoorg/mi-empresa-virtual/internal/core"
)

const testBusiness = "biz-1"

type fakeRepo struct {
	businesses map[string]*PublicBusiness
	products   map[string]*PublicProduct
	orders     map[string]*Order
	orderItems map[string][]OrderItem
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		businesses: make(map[string]*PublicBusiness),
		products:   make(map[string]*PublicProduct),
		orders:     make(map[string]*Order),
		orderItems: make(map[string][]OrderItem),
	}
}

func (r *fakeRepo) ListPublicProducts(_ context.Context, _ CatalogParams) ([]PublicProduct, int, error) {
	var out []PublicProduct
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (r *fakeRepo) ListPublicBusinesses(_ context.Context, _ DirectoryParams) ([]PublicBusiness, int, error) {
	var out []PublicBusiness
	for _, b := range r.businesses {
		out = append(out, *b)
	}
	return out, len(out), nil
}

func (r *fakeRepo) GetPublicBusiness(_ context.Context, id string) (*PublicBusiness, error) {
	b, ok := r.businesses[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return b, nil
}

func (r *fakeRepo) ListCategories(_ context.Context) ([]string, error) {
	return nil, nil
}

func (r *fakeRepo) ListBusinessTypes(_ context.Context) ([]string, error) {
	return nil, nil
}

func (r *fakeRepo) ProductForOrder(_ context.Context, businessID, productID string) (*PublicProduct, error) {
	p, ok := r.products[productID]
	if !ok || p.BusinessID != businessID {
		return nil, core.ErrNotFound
	}
	return p, nil
}

func (r *fakeRepo) CreateOrder(_ context.Context, order *Order, items []OrderItem) error {
	cp := *order
	r.orders[order.ID] = &cp
	r.orderItems[order.ID] = items
	return nil
}

func (r *fakeRepo) GetOrderByTrackingCode(_ context.Context, code string) (*Order, []OrderItem, error) {
	for _, o := range r.orders {
		if o.TrackingCode == code {
			return o, r.orderItems[o.ID], nil
		}
	}
	return nil, nil, core.ErrNotFound
}

func (r *fakeRepo) ListOrdersForBusiness(_ context.Context, businessID, status string, _, _ int) ([]Order, int, error) {
	var out []Order
	for _, o := range r.orders {
		if o.BusinessID == businessID && (status == "" || o.Status == status) {
			out = append(out, *o)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) GetOrder(_ context.Context, businessID, id string) (*Order, []OrderItem, error) {
	o, ok := r.orders[id]
	if !ok || o.BusinessID != businessID {
		return nil, nil, core.ErrNotFound
	}
	return o, r.orderItems[id], nil
}

func (r *fakeRepo) UpdateOrderStatus(_ context.Context, businessID, id, status string) error {
	o, ok := r.orders[id]
	if !ok || o.BusinessID != businessID {
		return core.ErrNotFound
	}
	o.Status = status
	return nil
}

type fakeTenants struct{}

func (fakeTenants) BusinessIDForUser(_ context.Context, userID string) (string, error) {
	if userID != "owner-1" {
		return "", core.ErrNoBusiness
	}
	return testBusiness, nil
}

type recordingNotifier struct {
	orders []string
}

func (n *recordingNotifier) OrderPlaced(_ context.Context, _, orderID, _ string) {
	n.orders = append(n.orders, orderID)
}

func newTestService() (*Service, *fakeRepo, *recordingNotifier) {
	repo := newFakeRepo()
	notifier := &recordingNotifier{}
	svc := NewService(repo, fakeTenants{}, notifier)

	repo.businesses[testBusiness] = &PublicBusiness{ID: testBusiness, Name: "Bodega"}
	repo.products["p1"] = &PublicProduct{
		ID:           "p1",
		Name:         "Cafe",
		SalePrice:    decimal.RequireFromString("3.50"),
		Stock:        10,
		BusinessID:   testBusiness,
		BusinessName: "Bodega",
	}
	repo.products["p2"] = &PublicProduct{
		ID:           "p2",
		Name:         "Azucar",
		SalePrice:    decimal.RequireFromString("1.25"),
		Stock:        10,
		BusinessID:   testBusiness,
		BusinessName: "Bodega",
	}

	return svc, repo, notifier
}

func orderReq(items ...OrderItemRequest) CreateOrderRequest {
	return CreateOrderRequest{
		BusinessID:    testBusiness,
		CustomerName:  "Maria",
		CustomerPhone: "555-1234",
		DeliveryType:  DeliveryTypePickup,
		Items:         items,
	}
}

func TestCreateOrderComputesTotalServerSide(t *testing.T) {
	svc, _, notifier := newTestService()

	order, items, err := svc.CreateOrder(context.Background(), orderReq(
		OrderItemRequest{ProductID: "p1", Quantity: 2}, // 7.00
		OrderItemRequest{ProductID: "p2", Quantity: 4}, // 5.00
	))
	require.NoError(t, err)

	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("12.00")))
	assert.Equal(t, OrderPending, order.Status)
	require.Len(t, items, 2)
	assert.Equal(t, "Cafe", items[0].ProductName,
		"item snapshots the product name at order time")

	require.Len(t, notifier.orders, 1)
	assert.Equal(t, order.ID, notifier.orders[0])
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	svc, repo, notifier := newTestService()

	_, _, err := svc.CreateOrder(context.Background(), orderReq(
		OrderItemRequest{ProductID: "ghost", Quantity: 1},
	))
	require.ErrorIs(t, err, core.ErrNotFound)
	assert.Empty(t, repo.orders)
	assert.Empty(t, notifier.orders)
}

func TestCreateOrderDeliveryNeedsAddress(t *testing.T) {
	svc, _, _ := newTestService()

	req := orderReq(OrderItemRequest{ProductID: "p1", Quantity: 1})
	req.DeliveryType = DeliveryTypeDelivery

	_, _, err := svc.CreateOrder(context.Background(), req)
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestTrackOrder(t *testing.T) {
	svc, _, _ := newTestService()

	order, _, err := svc.CreateOrder(context.Background(), orderReq(
		OrderItemRequest{ProductID: "p1", Quantity: 1},
	))
	require.NoError(t, err)

	found, items, err := svc.TrackOrder(context.Background(), order.TrackingCode)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	assert.Len(t, items, 1)
}

func TestUpdateOrderStatus(t *testing.T) {
	svc, repo, _ := newTestService()

	order, _, err := svc.CreateOrder(context.Background(), orderReq(
		OrderItemRequest{ProductID: "p1", Quantity: 1},
	))
	require.NoError(t, err)

	require.NoError(t, svc.UpdateOrderStatus(
		context.Background(), "owner-1", order.ID, OrderConfirmed))
	assert.Equal(t, OrderConfirmed, repo.orders[order.ID].Status)

	err = svc.UpdateOrderStatus(context.Background(), "owner-1", order.ID, "shipped")
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestTrackingCodeShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := newTrackingCode()

		require.True(t, strings.HasPrefix(code, "PED-"))
		require.Len(t, code, 12)
		for _, c := range code[4:] {
			assert.Contains(t, trackingAlphabet, string(c))
		}

		assert.False(t, seen[code], "tracking codes should not repeat")
		seen[code] = true
	}
}
