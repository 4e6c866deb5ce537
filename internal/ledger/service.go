// AngelaMos | 2026
// service.go

package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rodolfoorg/mi-empresa-virtual/internal/core"
)

// LicenseGate refuses writes from expired or missing licenses.
type LicenseGate interface {
	HasValidLicense(ctx context.Context, userID string) (bool, error)
}

// TenantResolver maps a user to their business.
type TenantResolver interface {
	BusinessIDForUser(ctx context.Context, userID string) (string, error)
}

// Notifier receives post-commit events. Implementations must not
// block; a notification failure never unwinds a committed transaction.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

type Event struct {
	Kind       string
	BusinessID string
	EntityID   string
}

const (
	EventSaleRegistered     = "sale.registered"
	EventSaleUndone         = "sale.undone"
	EventPurchaseRegistered = "purchase.registered"
	EventPurchaseUndone     = "purchase.undone"
	EventExpenseRegistered  = "expense.registered"
	EventExpenseUndone      = "expense.undone"
)

type Service struct {
	store    Store
	licenses LicenseGate
	tenants  TenantResolver
	notifier Notifier
}

func NewService(
	store Store,
	licenses LicenseGate,
	tenants TenantResolver,
	notifier Notifier,
) *Service {
	return &Service{
		store:    store,
		licenses: licenses,
		tenants:  tenants,
		notifier: notifier,
	}
}

// RegisterSale decrements stock and, for a non-credit sale with a card,
// credits the card with quantity x unit price. All inside one
// transaction with the product locked before the card.
func (s *Service) RegisterSale(
	ctx context.Context,
	userID string,
	req RegisterSaleRequest,
) (*Sale, error) {
	businessID, err := s.authorize(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", core.ErrInvalidInput)
	}
	if req.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("unit price must not be negative: %w", core.ErrInvalidInput)
	}

	sale := &Sale{
		ID:         uuid.NewString(),
		BusinessID: businessID,
		ProductID:  req.ProductID,
		ContactID:  req.ContactID,
		CardID:     req.CardID,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
		IsCredit:   req.IsCredit,
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		product, err := tx.LockProduct(ctx, businessID, req.ProductID)
		if err != nil {
			return err
		}

		if product.Stock < req.Quantity {
			return ErrInsufficientStock
		}

		if err := tx.SetProductStock(ctx, product.ID, product.Stock-req.Quantity); err != nil {
			return err
		}

		// a named card must exist even on credit, where no money moves
		if req.CardID != nil {
			card, err := tx.LockCard(ctx, businessID, *req.CardID)
			if err != nil {
				return err
			}

			if !req.IsCredit {
				newBalance := card.Balance.Add(sale.Total())
				if err := tx.SetCardBalance(ctx, card.ID, newBalance); err != nil {
					return err
				}
			}
		}

		return tx.InsertSale(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, Event{
		Kind:       EventSaleRegistered,
		BusinessID: businessID,
		EntityID:   sale.ID,
	})

	return sale, nil
}

// UndoSale reverses a sale best-effort: a product or card deleted since
// the sale is skipped silently, the surviving side is still restored,
// and the sale row is removed either way.
func (s *Service) UndoSale(ctx context.Context, userID, saleID string) error {
	businessID, err := s.authorize(ctx, userID)
	if err != nil {
		return err
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		sale, err := tx.GetSale(ctx, businessID, saleID)
		if err != nil {
			return err
		}

		product, err := tx.LockProduct(ctx, businessID, sale.ProductID)
		switch {
		case err == nil:
			if err := tx.SetProductStock(ctx, product.ID, product.Stock+sale.Quantity); err != nil {
				return err
			}
		case errors.Is(err, ErrProductNotFound):
			// product deleted since the sale; nothing to restore
		default:
			return err
		}

		if !sale.IsCredit && sale.CardID != nil {
			card, err := tx.LockCard(ctx, businessID, *sale.CardID)
			switch {
			case err == nil:
				// may push the balance negative; tolerated on undo
				newBalance := card.Balance.Sub(sale.Total())
				if err := tx.SetCardBalance(ctx, card.ID, newBalance); err != nil {
					return err
				}
			case errors.Is(err, ErrCardNotFound):
				// card deleted since the sale; money movement is lost
			default:
				return err
			}
		}

		return tx.DeleteSale(ctx, sale.ID)
	})
	if err != nil {
		return err
	}

	s.notifier.Notify(ctx, Event{
		Kind:       EventSaleUndone,
		BusinessID: businessID,
		EntityID:   saleID,
	})

	return nil
}

// RegisterPurchase increments stock and, for a non-credit purchase with
// a card, debits the card. The debit is refused when the balance would
// go negative.
func (s *Service) RegisterPurchase(
	ctx context.Context,
	userID string,
	req RegisterPurchaseRequest,
) (*Purchase, error) {
	businessID, err := s.authorize(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", core.ErrInvalidInput)
	}
	if req.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("unit price must not be negative: %w", core.ErrInvalidInput)
	}

	purchase := &Purchase{
		ID:         uuid.NewString(),
		BusinessID: businessID,
		ProductID:  req.ProductID,
		ContactID:  req.ContactID,
		CardID:     req.CardID,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
		IsCredit:   req.IsCredit,
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		product, err := tx.LockProduct(ctx, businessID, req.ProductID)
		if err != nil {
			return err
		}

		if err := tx.SetProductStock(ctx, product.ID, product.Stock+req.Quantity); err != nil {
			return err
		}

		// a named card must exist even on credit, where no money moves
		if req.CardID != nil {
			card, err := tx.LockCard(ctx, businessID, *req.CardID)
			if err != nil {
				return err
			}

			if !req.IsCredit {
				total := purchase.Total()
				if card.Balance.LessThan(total) {
					return ErrInsufficientFunds
				}

				if err := tx.SetCardBalance(ctx, card.ID, card.Balance.Sub(total)); err != nil {
					return err
				}
			}
		}

		return tx.InsertPurchase(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, Event{
		Kind:       EventPurchaseRegistered,
		BusinessID: businessID,
		EntityID:   purchase.ID,
	})

	return purchase, nil
}

// UndoPurchase reverses a purchase strictly: the stock it added must
// still be present, and a non-credit purchase must resolve a card to
// refund, either the original or overrideCardID. Any missing piece
// aborts with nothing changed.
func (s *Service) UndoPurchase(
	ctx context.Context,
	userID, purchaseID string,
	overrideCardID *string,
) error {
	businessID, err := s.authorize(ctx, userID)
	if err != nil {
		return err
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		purchase, err := tx.GetPurchase(ctx, businessID, purchaseID)
		if err != nil {
			return err
		}

		product, err := tx.LockProduct(ctx, businessID, purchase.ProductID)
		if err != nil {
			return err
		}

		if product.Stock < purchase.Quantity {
			return ErrInsufficientStockForUndo
		}

		if err := tx.SetProductStock(ctx, product.ID, product.Stock-purchase.Quantity); err != nil {
			return err
		}

		if !purchase.IsCredit {
			cardID := purchase.CardID
			if overrideCardID != nil {
				cardID = overrideCardID
			}
			if cardID == nil {
				return ErrCardRequired
			}

			card, err := tx.LockCard(ctx, businessID, *cardID)
			if err != nil {
				return err
			}

			if err := tx.SetCardBalance(ctx, card.ID, card.Balance.Add(purchase.Total())); err != nil {
				return err
			}
		}

		return tx.DeletePurchase(ctx, purchase.ID)
	})
	if err != nil {
		return err
	}

	s.notifier.Notify(ctx, Event{
		Kind:       EventPurchaseUndone,
		BusinessID: businessID,
		EntityID:   purchaseID,
	})

	return nil
}

// RegisterExpense debits a card when one is named; a cardless expense
// only records the row.
func (s *Service) RegisterExpense(
	ctx context.Context,
	userID string,
	req RegisterExpenseRequest,
) (*Expense, error) {
	businessID, err := s.authorize(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive: %w", core.ErrInvalidInput)
	}

	expense := &Expense{
		ID:          uuid.NewString(),
		BusinessID:  businessID,
		CardID:      req.CardID,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		if req.CardID != nil {
			card, err := tx.LockCard(ctx, businessID, *req.CardID)
			if err != nil {
				return err
			}

			if card.Balance.LessThan(req.Amount) {
				return ErrInsufficientFunds
			}

			if err := tx.SetCardBalance(ctx, card.ID, card.Balance.Sub(req.Amount)); err != nil {
				return err
			}
		}

		return tx.InsertExpense(ctx, expense)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, Event{
		Kind:       EventExpenseRegistered,
		BusinessID: businessID,
		EntityID:   expense.ID,
	})

	return expense, nil
}

// UndoExpense deletes the expense and refunds its amount. When the
// expense debited a card the caller must name the card to credit; the
// original card is never assumed, it may have been replaced since.
func (s *Service) UndoExpense(
	ctx context.Context,
	userID, expenseID string,
	cardID *string,
) error {
	businessID, err := s.authorize(ctx, userID)
	if err != nil {
		return err
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		expense, err := tx.GetExpense(ctx, businessID, expenseID)
		if err != nil {
			return err
		}

		if expense.CardID != nil {
			if cardID == nil {
				return ErrCardRequired
			}

			card, err := tx.LockCard(ctx, businessID, *cardID)
			if err != nil {
				return err
			}

			if err := tx.SetCardBalance(ctx, card.ID, card.Balance.Add(expense.Amount)); err != nil {
				return err
			}
		}

		return tx.DeleteExpense(ctx, expense.ID)
	})
	if err != nil {
		return err
	}

	s.notifier.Notify(ctx, Event{
		Kind:       EventExpenseUndone,
		BusinessID: businessID,
		EntityID:   expenseID,
	})

	return nil
}

func (s *Service) GetSale(ctx context.Context, userID, saleID string) (*Sale, error) {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.GetSale(ctx, businessID, saleID)
}

func (s *Service) ListSales(
	ctx context.Context,
	userID string,
	params ListParams,
) ([]Sale, int, error) {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	params.Normalize()
	return s.store.ListSales(ctx, businessID, params)
}

func (s *Service) GetPurchase(ctx context.Context, userID, purchaseID string) (*Purchase, error) {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.GetPurchase(ctx, businessID, purchaseID)
}

func (s *Service) ListPurchases(
	ctx context.Context,
	userID string,
	params ListParams,
) ([]Purchase, int, error) {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	params.Normalize()
	return s.store.ListPurchases(ctx, businessID, params)
}

func (s *Service) GetExpense(ctx context.Context, userID, expenseID string) (*Expense, error) {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.GetExpense(ctx, businessID, expenseID)
}

func (s *Service) ListExpenses(
	ctx context.Context,
	userID string,
	params ListParams,
) ([]Expense, int, error) {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	params.Normalize()
	return s.store.ListExpenses(ctx, businessID, params)
}

// authorize resolves the tenant and checks the license gate; every
// mutating ledger operation starts here.
func (s *Service) authorize(ctx context.Context, userID string) (string, error) {
	businessID, err := s.tenants.BusinessIDForUser(ctx, userID)
	if err != nil {
		return "", err
	}

	valid, err := s.licenses.HasValidLicense(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("check license: %w", err)
	}
	if !valid {
		return "", core.ErrLicenseExpired
	}

	return businessID, nil
}
