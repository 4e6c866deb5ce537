// AngelaMos | 2026
// service_test.go

package ledger

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

type fakeProduct struct {
	businessID string
	name       string
	stock      int
}

type fakeCard struct {
	businessID string
	name       string
	balance    decimal.Decimal
}

type fakeState struct {
	products  map[string]fakeProduct
	cards     map[string]fakeCard
	sales     map[string]Sale
	purchases map[string]Purchase
	expenses  map[string]Expense
}

func newFakeState() *fakeState {
	return &fakeState{
		products:  make(map[string]fakeProduct),
		cards:     make(map[string]fakeCard),
		sales:     make(map[string]Sale),
		purchases: make(map[string]Purchase),
		expenses:  make(map[string]Expense),
	}
}

func (s *fakeState) clone() *fakeState {
	c := newFakeState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.cards {
		c.cards[k] = v
	}
	for k, v := range s.sales {
		c.sales[k] = v
	}
	for k, v := range s.purchases {
		c.purchases[k] = v
	}
	for k, v := range s.expenses {
		c.expenses[k] = v
	}
	return c
}

// fakeStore gives the service real rollback semantics: InTx runs fn
// against a copy of the state and publishes the copy only on success.
type fakeStore struct {
	state *fakeState
}

func newFakeStore() *fakeStore {
	return &fakeStore{state: newFakeState()}
}

func (f *fakeStore) InTx(_ context.Context, fn func(Store) error) error {
	work := f.state.clone()
	if err := fn(&fakeStore{state: work}); err != nil {
		return err
	}
	f.state = work
	return nil
}

func (f *fakeStore) LockProduct(_ context.Context, businessID, productID string) (*ProductRow, error) {
	p, ok := f.state.products[productID]
	if !ok || p.businessID != businessID {
		return nil, ErrProductNotFound
	}
	return &ProductRow{ID: productID, Name: p.name, Stock: p.stock}, nil
}

func (f *fakeStore) LockCard(_ context.Context, businessID, cardID string) (*CardRow, error) {
	c, ok := f.state.cards[cardID]
	if !ok || c.businessID != businessID {
		return nil, ErrCardNotFound
	}
	return &CardRow{ID: cardID, Name: c.name, Balance: c.balance}, nil
}

func (f *fakeStore) SetProductStock(_ context.Context, productID string, stock int) error {
	p := f.state.products[productID]
	p.stock = stock
	f.state.products[productID] = p
	return nil
}

func (f *fakeStore) SetCardBalance(_ context.Context, cardID string, balance decimal.Decimal) error {
	c := f.state.cards[cardID]
	c.balance = balance
	f.state.cards[cardID] = c
	return nil
}

func (f *fakeStore) InsertSale(_ context.Context, s *Sale) error {
	f.state.sales[s.ID] = *s
	return nil
}

func (f *fakeStore) GetSale(_ context.Context, businessID, id string) (*Sale, error) {
	s, ok := f.state.sales[id]
	if !ok || s.BusinessID != businessID {
		return nil, ErrSaleNotFound
	}
	return &s, nil
}

func (f *fakeStore) ListSales(_ context.Context, businessID string, _ ListParams) ([]Sale, int, error) {
	var out []Sale
	for _, s := range f.state.sales {
		if s.BusinessID == businessID {
			out = append(out, s)
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) DeleteSale(_ context.Context, id string) error {
	delete(f.state.sales, id)
	return nil
}

func (f *fakeStore) InsertPurchase(_ context.Context, p *Purchase) error {
	f.state.purchases[p.ID] = *p
	return nil
}

func (f *fakeStore) GetPurchase(_ context.Context, businessID, id string) (*Purchase, error) {
	p, ok := f.state.purchases[id]
	if !ok || p.BusinessID != businessID {
		return nil, ErrPurchaseNotFound
	}
	return &p, nil
}

func (f *fakeStore) ListPurchases(_ context.Context, businessID string, _ ListParams) ([]Purchase, int, error) {
	var out []Purchase
	for _, p := range f.state.purchases {
		if p.BusinessID == businessID {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) DeletePurchase(_ context.Context, id string) error {
	delete(f.state.purchases, id)
	return nil
}

func (f *fakeStore) InsertExpense(_ context.Context, e *Expense) error {
	f.state.expenses[e.ID] = *e
	return nil
}

func (f *fakeStore) GetExpense(_ context.Context, businessID, id string) (*Expense, error) {
	e, ok := f.state.expenses[id]
	if !ok || e.BusinessID != businessID {
		return nil, ErrExpenseNotFound
	}
	return &e, nil
}

func (f *fakeStore) ListExpenses(_ context.Context, businessID string, _ ListParams) ([]Expense, int, error) {
	var out []Expense
	for _, e := range f.state.expenses {
		if e.BusinessID == businessID {
			out = append(out, e)
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) DeleteExpense(_ context.Context, id string) error {
	delete(f.state.expenses, id)
	return nil
}

type fakeGate struct {
	valid bool
}

func (g *fakeGate) HasValidLicense(_ context.Context, _ string) (bool, error) {
	return g.valid, nil
}

type fakeTenants struct{}

func (fakeTenants) BusinessIDForUser(_ context.Context, userID string) (string, error) {
	if userID != testUser {
		return "", core.ErrNoBusiness
	}
	return testBusiness, nil
}

type recordingNotifier struct {
	events []Event
}

func (n *recordingNotifier) Notify(_ context.Context, event Event) {
	n.events = append(n.events, event)
}

func newTestService() (*Service, *fakeStore, *fakeGate, *recordingNotifier) {
	store := newFakeStore()
	gate := &fakeGate{valid: true}
	notifier := &recordingNotifier{}
	svc := NewService(store, gate, fakeTenants{}, notifier)
	return svc, store, gate, notifier
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string {
	return &s
}

func seedProduct(store *fakeStore, id string, stock int) {
	store.state.products[id] = fakeProduct{
		businessID: testBusiness,
		name:       "product " + id,
		stock:      stock,
	}
}

func seedCard(store *fakeStore, id, balance string) {
	store.state.cards[id] = fakeCard{
		businessID: testBusiness,
		name:       "card " + id,
		balance:    money(balance),
	}
}

func TestRegisterSaleMovesStockAndMoney(t *testing.T) {
	svc, store, _, notifier := newTestService()
	seedProduct(store, "p1", 10)
	seedCard(store, "c1", "100.00")

	sale, err := svc.RegisterSale(context.Background(), testUser, RegisterSaleRequest{
		ProductID: "p1",
		CardID:    strPtr("c1"),
		Quantity:  3,
		UnitPrice: money("5.50"),
	})
	require.NoError(t, err)

	assert.Equal(t, 7, store.state.products["p1"].stock)
	assert.True(t, store.state.cards["c1"].balance.Equal(money("116.50")))
	assert.Len(t, store.state.sales, 1)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, EventSaleRegistered, notifier.events[0].Kind)
	assert.Equal(t, sale.ID, notifier.events[0].EntityID)
}

func TestRegisterSaleCreditSkipsCard(t *testing.T) {
	svc, store, _, _ := newTestService()
	seedProduct(store, "p1", 10)
	seedCard(store, "c1", "100.00")

	_, err := svc.RegisterSale(context.Background(), testUser, RegisterSaleRequest{
		ProductID: "p1",
		CardID:    strPtr("c1"),
		Quantity:  2,
		UnitPrice: money("5.00"),
		IsCredit:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, 8, store.state.products["p1"].stock)
	assert.True(t, store.state.cards["c1"].balance.Equal(money("100.00")),
		"credit sale must not touch the card")
}

func TestRegisterSaleCreditMissingCard(t *testing.T) {
	svc, store, _, notifier := newTestService()
	seedProduct(store, "p1", 10)

	_, err := svc.RegisterSale(context.Background(), testUser, RegisterSaleRequest{
		ProductID: "p1",
		CardID:    strPtr("no-such-card"),
		Quantity:  2,
		UnitPrice: money("5.00"),
		IsCredit:  true,
	})
	require.ErrorIs(t, err, ErrCardNotFound,
		"a named card must exist even when credit moves no money")

	assert.Equal(t, 10, store.state.products["p1"].stock)
	assert.Empty(t, store.state.sales)
	assert.Empty(t, notifier.events)
}

func TestRegisterPurchaseCreditMissingCard(t *testing.T) {
	svc, store, _, notifier := newTestService()
	seedProduct(store, "p1", 5)

	_, err := svc.RegisterPurchase(context.Background(), testUser, RegisterPurchaseRequest{
		ProductID: "p1",
		CardID:    strPtr("no-such-card"),
		Quantity:  3,
		UnitPrice: money("4.00"),
		IsCredit:  true,
	})
	require.ErrorIs(t, err, ErrCardNotFound)

	assert.Equal(t, 5, store.state.products["p1"].stock,
		"stock increment must not survive the failed card lookup")
	assert.Empty(t, store.state.purchases)
	assert.Empty(t, notifier.events)
}

func TestRegisterSaleInsufficientStock(t *testing.T) {
	svc, store, _, notifier := newTestService()
	seedProduct(store, "p1", 2)
	seedCard(store, "c1", "100.00")

	_, err := svc.RegisterSale(context.Background(), testUser, RegisterSaleRequest{
		ProductID: "p1",
		CardID:    strPtr("c1"),
		Quantity:  3,
		UnitPrice: money("5.00"),
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, 2, store.state.products["p1"].stock)
	assert.True(t, store.state.cards["c1"].balance.Equal(money("100.00")))
	assert.Empty(t, store.state.sales)
	assert.Empty(t, notifier.events)
}

func TestRegisterSaleMissingCardRollsBackStock(t *testing.T) {
	svc, store, _, _ := newTestService()
	seedProduct(store, "p1", 10)

	_, err := svc.RegisterSale(context.Background(), testUser, RegisterSaleRequest{
		ProductID: "p1",
		CardID:    strPtr("no-such-card"),
		Quantity:  4,
		UnitPrice: money("2.00"),
	})
	require.ErrorIs(t, err, ErrCardNotFound)

	assert.Equal(t, 10, store.state.products["p1"].stock,
		"stock decrement must not survive the failed card lookup")
	assert.Empty(t, store.state.sales)
}

func TestSaleRoundTripRestoresState(t *testing.T) {
	svc, store, _, _ := newTestService()
	seedProduct(store, "p1", 10)
	seedCard(store, "c1", "100.00")

	sale, err := svc.RegisterSale(context.Background(), testUser, RegisterSaleRequest{
		ProductID: "p1",
		CardID:    strPtr("c1"),
		Quantity:  3,
		UnitPrice: money("5.00"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.UndoSale(context.Background(), testUser, sale.ID))

	assert.Equal(t, 10, store.state.products["p1"].stock)
	assert.True(t, store.state.cards["c1"].balance.Equal(money("100.00")))
	assert.Empty(t, store.state.sales)
}

func TestUndoSaleMissingProductStillDeletes(t *testing.T) {
	svc, store, _, _ := newTestService()
	seedProduct(store, "p1", 10)
	seedCard(store, "c1", "0.00")

	sale, err := svc.RegisterSale(context.Background(), testUser, RegisterSaleRequest{
		ProductID: "p1",
		CardID:    strPtr("c1"),
		Quantity:  2,
		UnitPrice: money("3.00"),
	})
	require.NoError(t, err)

	delete(store.state.products, "p1")

	require.NoError(t, svc.UndoSale(context.Background(), testUser, sale.ID))

	assert.Empty(t, store.state.sales)
	assert.True(t, store.state.cards["c1"].balance.Equal(money("0.00")),
		"card debit still applies when only the product is gone")
}

func TestUndoSaleMayDriveBalanceNegative(t *testing.T) {
	svc, store, _, _ := newTestService()
	seedProduct(store, "p1", 10)
	seedCard(store, "c1", "100.00")

	sale, err := svc.RegisterSale(context.Background(), testUser, RegisterSaleRequest{
		ProductID: "p1",
		CardID:    strPtr("c1"),
		Quantity:  5,
		UnitPrice: money("10.00"),
	})
	require.NoError(t, err)

	// money left the card between sale and undo
	seedCard(store, "c1", "20.00")

	require.NoError(t, svc.UndoSale(context.Background(), testUser, sale.ID))
	assert.True(t, store.state.cards["c1"].balance.Equal(money("-30.00")))
}

func TestUndoSaleNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	err := svc.UndoSale(context.Background(), testUser, "missing")
	require.ErrorIs(t, err, ErrSaleNotFound)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRegisterPurchaseMovesStockAndMoney(t *testing.T) {
	svc, store, _, _ := newTestService()
	seedProduct(store, "p1", 5)
	seedCard(store, "c1", "100.00")

	_, err := svc.RegisterPurchase(context.Background(), testUser, RegisterPurchaseRequest{
		ProductID: "p1",
		CardID:    strPtr("c1"),
		Quantity:  4,
		UnitPrice: money("10.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, 9, store.state.products["p1"].stock)
	assert.True(t, store.state.cards["c1"].balance.Equal(money("60.00")))
}

func TestRegisterPurchaseInsufficientFunds(t *testing.T) {
	svc, store, _, _ := newTestService()
	seedProduct(store, "p1", 5)
	seedCard(store, "c1", "30.00")

	_, err := svc.RegisterPurchase(context.Background(), testUser, RegisterPurchaseRequest{
		ProductID: "p1",
		CardID:    strPtr("c1"),
		Quantity:  4,
		UnitPrice: money("10.00"),
	})
	require.ErrorIs(t, err, ErrInsufficientFunds)

	assert.Equal(t, 5, store.state.products["p1"].stock,
		"stock increment must roll back with the refused debit")
	assert.True(t, store.state.cards["c1"].balance.Equal(money("30.00")))
	assert.Empty(t, store.state.purchases)
}

func TestPurchaseRoundTripRestoresState(t *testing.T) {
	svc, store, _, _ := newTestService()
	seedProduct(store, "p1", 5)
	seedCard(store, "c1", "100.00")

	purchase, err := svc.RegisterPurchase(context.Background(), testUser, RegisterPurchaseRequest{
		ProductID: "p1",
		CardID:    strPtr("c1"),
		Quantity:  4,
		UnitPrice: money("10.00"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.UndoPurchase(context.Background(), testUser, purchase.ID, nil))

	assert.Equal(t, 5, store.state.products["p1"].stock)
	assert.True(t, store.state.cards["c1"].balance.Equal(money("100.00")))
	assert.Empty(t, store.state.purchases)
}

func TestUndoPurchaseInsufficientStock(t *testing.T) {
	svc, store, _, _ := newTestService()
	seedProduct(store, "p1", 0)
	seedCard(store, "c1", "100.00")

	purchase, err := svc.RegisterPurchase(context.Background(), testUser, RegisterPurchaseRequest{
		ProductID: "p1",
		CardID:    strPtr("c1"),
		Quantity:  4,
		UnitPrice: money("5.00"),
	})
	require.NoError(t, err)

	// the purchased units were sold on
	seedProduct(store, "p1", 2)

	err = svc.UndoPurchase(context.Background(), testUser, purchase.ID, nil)
	require.ErrorIs(t, err, ErrInsufficientStockForUndo)

	assert.Equal(t, 2, store.state.products["p1"].stock)
	assert.True(t, store.state.cards["c1"].balance.Equal(money("80.00")))
	assert.Len(t, store.state.purchases, 1, "failed undo must keep the row")
}

func TestUndoPurchaseCardRequired(t *testing.T) {
	svc, store, _, _ := newTestService()
	seedProduct(store, "p1", 0)

	// non-credit purchase recorded without a card
	purchase := Purchase{
		ID:         "buy-1",
		BusinessID: testBusiness,
		ProductID:  "p1",
		Quantity:   2,
		UnitPrice:  money("5.00"),
	}
	store.state.purchases[purchase.ID] = purchase
	seedProduct(store, "p1", 2)

	err := svc.UndoPurchase(context.Background(), testUser, purchase.ID, nil)
	require.ErrorIs(t, err, ErrCardRequired)
	assert.Equal(t, 2, store.state.products["p1"].stock)
}

func TestUndoPurchaseOverrideCard(t *testing.T) {
	svc, store, _, _ := newTestService()
	seedProduct(store, "p1", 5)
	seedCard(store, "c1", "100.00")
	seedCard(store, "c2", "10.00")

	purchase, err := svc.RegisterPurchase(context.Background(), testUser, RegisterPurchaseRequest{
		ProductID: "p1",
		CardID:    strPtr("c1"),
		Quantity:  3,
		UnitPrice: money("10.00"),
	})
	require.NoError(t, err)

	// original card is gone; refund lands on the replacement
	delete(store.state.cards, "c1")

	require.NoError(t, svc.UndoPurchase(context.Background(), testUser, purchase.ID, strPtr("c2")))

	assert.Equal(t, 5, store.state.products["p1"].stock)
	assert.True(t, store.state.cards["c2"].balance.Equal(money("40.00")))
}

func TestUndoPurchaseMissingCardAborts(t *testing.T) {
	svc, store, _, _ := newTestService()
	seedProduct(store, "p1", 5)
	seedCard(store, "c1", "100.00")

	purchase, err := svc.RegisterPurchase(context.Background(), testUser, RegisterPurchaseRequest{
		ProductID: "p1",
		CardID:    strPtr("c1"),
		Quantity:  3,
		UnitPrice: money("10.00"),
	})
	require.NoError(t, err)

	delete(store.state.cards, "c1")

	err = svc.UndoPurchase(context.Background(), testUser, purchase.ID, nil)
	require.ErrorIs(t, err, ErrCardNotFound)

	assert.Equal(t, 8, store.state.products["p1"].stock,
		"stock reversal must roll back when the refund card is missing")
	assert.Len(t, store.state.purchases, 1)
}

func TestRegisterExpenseDebitsCard(t *testing.T) {
	svc, store, _, _ := newTestService()
	seedCard(store, "c1", "50.00")

	_, err := svc.RegisterExpense(context.Background(), testUser, RegisterExpenseRequest{
		CardID: strPtr("c1"),
		Amount: money("12.50"),
	})
	require.NoError(t, err)

	assert.True(t, store.state.cards["c1"].balance.Equal(money("37.50")))
	assert.Len(t, store.state.expenses, 1)
}

func TestRegisterExpenseInsufficientFunds(t *testing.T) {
	svc, store, _, _ := newTestService()
	seedCard(store, "c1", "10.00")

	_, err := svc.RegisterExpense(context.Background(), testUser, RegisterExpenseRequest{
		CardID: strPtr("c1"),
		Amount: money("12.50"),
	})
	require.ErrorIs(t, err, ErrInsufficientFunds)

	assert.True(t, store.state.cards["c1"].balance.Equal(money("10.00")))
	assert.Empty(t, store.state.expenses)
}

func TestRegisterExpenseWithoutCard(t *testing.T) {
	svc, store, _, _ := newTestService()

	_, err := svc.RegisterExpense(context.Background(), testUser, RegisterExpenseRequest{
		Amount: money("12.50"),
	})
	require.NoError(t, err)
	assert.Len(t, store.state.expenses, 1)
}

func TestUndoExpenseRequiresExplicitCard(t *testing.T) {
	svc, store, _, _ := newTestService()
	seedCard(store, "c1", "50.00")

	expense, err := svc.RegisterExpense(context.Background(), testUser, RegisterExpenseRequest{
		CardID: strPtr("c1"),
		Amount: money("20.00"),
	})
	require.NoError(t, err)

	err = svc.UndoExpense(context.Background(), testUser, expense.ID, nil)
	require.ErrorIs(t, err, ErrCardRequired,
		"the original card is never assumed on expense undo")

	require.NoError(t, svc.UndoExpense(context.Background(), testUser, expense.ID, strPtr("c1")))
	assert.True(t, store.state.cards["c1"].balance.Equal(money("50.00")))
	assert.Empty(t, store.state.expenses)
}

func TestUndoCardlessExpense(t *testing.T) {
	svc, store, _, _ := newTestService()

	expense, err := svc.RegisterExpense(context.Background(), testUser, RegisterExpenseRequest{
		Amount: money("5.00"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.UndoExpense(context.Background(), testUser, expense.ID, nil))
	assert.Empty(t, store.state.expenses)
}

func TestExpiredLicenseBlocksAllWrites(t *testing.T) {
	svc, store, gate, notifier := newTestService()
	seedProduct(store, "p1", 10)
	seedCard(store, "c1", "100.00")
	gate.valid = false

	_, err := svc.RegisterSale(context.Background(), testUser, RegisterSaleRequest{
		ProductID: "p1", Quantity: 1, UnitPrice: money("1.00"),
	})
	assert.ErrorIs(t, err, core.ErrLicenseExpired)

	_, err = svc.RegisterPurchase(context.Background(), testUser, RegisterPurchaseRequest{
		ProductID: "p1", Quantity: 1, UnitPrice: money("1.00"),
	})
	assert.ErrorIs(t, err, core.ErrLicenseExpired)

	_, err = svc.RegisterExpense(context.Background(), testUser, RegisterExpenseRequest{
		Amount: money("1.00"),
	})
	assert.ErrorIs(t, err, core.ErrLicenseExpired)

	err = svc.UndoSale(context.Background(), testUser, "any")
	assert.ErrorIs(t, err, core.ErrLicenseExpired)

	assert.Equal(t, 10, store.state.products["p1"].stock)
	assert.True(t, store.state.cards["c1"].balance.Equal(money("100.00")))
	assert.Empty(t, store.state.sales)
	assert.Empty(t, notifier.events)
}

func TestUserWithoutBusinessIsRejected(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.RegisterSale(context.Background(), "stranger", RegisterSaleRequest{
		ProductID: "p1", Quantity: 1, UnitPrice: money("1.00"),
	})
	assert.ErrorIs(t, err, core.ErrNoBusiness)
}

func TestFailedOperationIsRepeatable(t *testing.T) {
	svc, store, _, _ := newTestService()
	seedProduct(store, "p1", 2)

	req := RegisterSaleRequest{
		ProductID: "p1", Quantity: 5, UnitPrice: money("1.00"),
	}

	for i := 0; i < 3; i++ {
		_, err := svc.RegisterSale(context.Background(), testUser, req)
		require.ErrorIs(t, err, ErrInsufficientStock)
	}

	assert.Equal(t, 2, store.state.products["p1"].stock,
		"a refused operation must not accumulate side effects")
}

func TestRegisterSaleRejectsBadInput(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.RegisterSale(context.Background(), testUser, RegisterSaleRequest{
		ProductID: "p1", Quantity: 0, UnitPrice: money("1.00"),
	})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = svc.RegisterSale(context.Background(), testUser, RegisterSaleRequest{
		ProductID: "p1", Quantity: 1, UnitPrice: money("-1.00"),
	})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = svc.RegisterExpense(context.Background(), testUser, RegisterExpenseRequest{
		Amount: money("0.00"),
	})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}
