// AngelaMos | 2026
// errors.go

package ledger

import (
	"fmt"

	"github.com/rodolfoorg/mi-empresa-virtual/internal/core"
)

var (
	ErrProductNotFound  = fmt.Errorf("product: %w", core.ErrNotFound)
	ErrCardNotFound     = fmt.Errorf("card: %w", core.ErrNotFound)
	ErrSaleNotFound     = fmt.Errorf("sale: %w", core.ErrNotFound)
	ErrPurchaseNotFound = fmt.Errorf("purchase: %w", core.ErrNotFound)
	ErrExpenseNotFound  = fmt.Errorf("expense: %w", core.ErrNotFound)

	ErrInsufficientStock = fmt.Errorf(
		"insufficient stock: %w", core.ErrInvalidInput)
	ErrInsufficientFunds = fmt.Errorf(
		"insufficient funds: %w", core.ErrInvalidInput)
	ErrInsufficientStockForUndo = fmt.Errorf(
		"insufficient stock to undo: %w", core.ErrInvalidInput)
	ErrCardRequired = fmt.Errorf(
		"card required: %w", core.ErrInvalidInput)
)
