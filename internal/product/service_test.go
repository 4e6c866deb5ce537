// AngelaMos | 2026
// service_test.go

package product

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodolfoorg/mi-empresa-virtual/internal/core"
)

const (
	testUser     = "user-1"
	testBusiness = "biz-1"
)

type fakeRepo struct {
	products map[string]*Product
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: make(map[string]*Product)}
}

func (r *fakeRepo) Create(_ context.Context, p *Product) error {
	for _, existing := range r.products {
		if existing.BusinessID == p.BusinessID && existing.Name == p.Name {
			return core.ErrDuplicateKey
		}
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, businessID, id string) (*Product, error) {
	p, ok := r.products[id]
	if !ok || p.BusinessID != businessID {
		return nil, core.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) List(_ context.Context, businessID string, _ ListProductsParams) ([]Product, int, error) {
	var out []Product
	for _, p := range r.products {
		if p.BusinessID == businessID {
			out = append(out, *p)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) Update(_ context.Context, p *Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return core.ErrNotFound
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, businessID, id string) error {
	p, ok := r.products[id]
	if !ok || p.BusinessID != businessID {
		return core.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeRepo) CountByBusiness(_ context.Context, businessID string) (int, error) {
	count := 0
	for _, p := range r.products {
		if p.BusinessID == businessID {
			count++
		}
	}
	return count, nil
}

type fakeGate struct {
	valid       bool
	maxProducts int
}

func (g *fakeGate) HasValidLicense(_ context.Context, _ string) (bool, error) {
	return g.valid, nil
}

func (g *fakeGate) MaxProducts(_ context.Context, _ string) (int, error) {
	return g.maxProducts, nil
}

type fakeTenants struct{}

func (fakeTenants) BusinessIDForUser(_ context.Context, userID string) (string, error) {
	if userID != testUser {
		return "", core.ErrNoBusiness
	}
	return testBusiness, nil
}

func newTestService(maxProducts int) (*Service, *fakeRepo, *fakeGate) {
	repo := newFakeRepo()
	gate := &fakeGate{valid: true, maxProducts: maxProducts}
	return NewService(repo, gate, fakeTenants{}), repo, gate
}

func createReq(name string) CreateProductRequest {
	return CreateProductRequest{
		Name:      name,
		SalePrice: decimal.RequireFromString("10.00"),
		Stock:     5,
	}
}

func TestCreateProduct(t *testing.T) {
	svc, repo, _ := newTestService(15)

	p, err := svc.Create(context.Background(), testUser, createReq("Cafe"))
	require.NoError(t, err)
	assert.Equal(t, testBusiness, p.BusinessID)
	assert.Len(t, repo.products, 1)
}

func TestCreateProductPlanCeiling(t *testing.T) {
	svc, repo, _ := newTestService(2)

	_, err := svc.Create(context.Background(), testUser, createReq("A"))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), testUser, createReq("B"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), testUser, createReq("C"))
	require.ErrorIs(t, err, core.ErrForbidden)
	assert.Len(t, repo.products, 2)
}

func TestCreateProductUnlimitedPlan(t *testing.T) {
	svc, _, _ := newTestService(0)

	for _, name := range []string{"A", "B", "C", "D", "E"} {
		_, err := svc.Create(context.Background(), testUser, createReq(name))
		require.NoError(t, err)
	}
}

func TestCreateProductDuplicateName(t *testing.T) {
	svc, _, _ := newTestService(15)

	_, err := svc.Create(context.Background(), testUser, createReq("Cafe"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), testUser, createReq("Cafe"))
	require.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestCreateProductExpiredLicense(t *testing.T) {
	svc, repo, gate := newTestService(15)
	gate.valid = false

	_, err := svc.Create(context.Background(), testUser, createReq("Cafe"))
	require.ErrorIs(t, err, core.ErrLicenseExpired)
	assert.Empty(t, repo.products)
}

func TestCreateProductNoBusiness(t *testing.T) {
	svc, _, _ := newTestService(15)

	_, err := svc.Create(context.Background(), "stranger", createReq("Cafe"))
	require.ErrorIs(t, err, core.ErrNoBusiness)
}

func TestUpdateProductRejectsNegativePrice(t *testing.T) {
	svc, _, _ := newTestService(15)

	p, err := svc.Create(context.Background(), testUser, createReq("Cafe"))
	require.NoError(t, err)

	negative := decimal.RequireFromString("-1.00")
	_, err = svc.Update(context.Background(), testUser, p.ID, UpdateProductRequest{
		SalePrice: &negative,
	})
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestDeleteProduct(t *testing.T) {
	svc, repo, _ := newTestService(15)

	p, err := svc.Create(context.Background(), testUser, createReq("Cafe"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), testUser, p.ID))
	assert.Empty(t, repo.products)
}
