// AngelaMos | 2026
// repository.go

package storefront

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/rodolfoorg/mi-empresa-virtual/internal/core"
)

type Repository interface {
	ListPublicProducts(ctx context.Context, params CatalogParams) ([]PublicProduct, int, error)
	ListPublicBusinesses(ctx context.Context, params DirectoryParams) ([]PublicBusiness, int, error)
	GetPublicBusiness(ctx context.Context, id string) (*PublicBusiness, error)
	ListCategories(ctx context.Context) ([]string, error)
	ListBusinessTypes(ctx context.Context) ([]string, error)

	ProductForOrder(ctx context.Context, businessID, productID string) (*PublicProduct, error)
	CreateOrder(ctx context.Context, order *Order, items []OrderItem) error
	GetOrderByTrackingCode(ctx context.Context, code string) (*Order, []OrderItem, error)
	ListOrdersForBusiness(ctx context.Context, businessID string, status string, page, pageSize int) ([]Order, int, error)
	GetOrder(ctx context.Context, businessID, id string) (*Order, []OrderItem, error)
	UpdateOrderStatus(ctx context.Context, businessID, id, status string) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// visibleProducts restricts the catalog to public products of public
// businesses whose owner holds a live license.
const visibleProducts = `
	p.is_public = TRUE
	AND b.is_public = TRUE
	AND l.active = TRUE
	AND l.expiration_date > NOW()`

func (r *repository) ListPublicProducts(
	ctx context.Context,
	params CatalogParams,
) ([]PublicProduct, int, error) {
	conditions := []string{visibleProducts}
	var args []any
	argPos := 1

	if params.Search != "" {
		conditions = append(conditions,
			fmt.Sprintf("p.name ILIKE $%d", argPos))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argPos++
	}
	if params.Category != "" {
		conditions = append(conditions,
			fmt.Sprintf("p.category = $%d", argPos))
		args = append(args, params.Category)
		argPos++
	}
	if params.BusinessID != "" {
		conditions = append(conditions,
			fmt.Sprintf("p.business_id = $%d", argPos))
		args = append(args, params.BusinessID)
		argPos++
	}
	if params.MinPrice != nil {
		conditions = append(conditions,
			fmt.Sprintf("p.sale_price >= $%d", argPos))
		args = append(args, *params.MinPrice)
		argPos++
	}
	if params.MaxPrice != nil {
		conditions = append(conditions,
			fmt.Sprintf("p.sale_price <= $%d", argPos))
		args = append(args, *params.MaxPrice)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	from := `
		FROM products p
		JOIN businesses b ON b.id = p.business_id
		JOIN licenses l ON l.user_id = b.user_id`

	var total int
	countQuery := `SELECT COUNT(*) ` + from + ` WHERE ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count public products: %w", err)
	}

	var orderBy string
	switch params.SortBy {
	case "price_asc":
		orderBy = "p.sale_price ASC"
	case "price_desc":
		orderBy = "p.sale_price DESC"
	case "newest":
		orderBy = "p.created_at DESC"
	default:
		orderBy = "p.name ASC"
	}

	query := fmt.Sprintf(`
		SELECT p.id, p.name, p.description, p.category, p.sale_price,
		       p.stock, p.business_id, b.name AS business_name
		%s
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		from, where, orderBy, argPos, argPos+1)
	args = append(args, params.PageSize, params.Offset())

	var products []PublicProduct
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list public products: %w", err)
	}

	return products, total, nil
}

const visibleBusinesses = `
	b.is_public = TRUE
	AND l.active = TRUE
	AND l.expiration_date > NOW()`

func (r *repository) ListPublicBusinesses(
	ctx context.Context,
	params DirectoryParams,
) ([]PublicBusiness, int, error) {
	conditions := []string{visibleBusinesses}
	var args []any
	argPos := 1

	if params.Search != "" {
		conditions = append(conditions,
			fmt.Sprintf("b.name ILIKE $%d", argPos))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argPos++
	}
	if params.BusinessType != "" {
		conditions = append(conditions,
			fmt.Sprintf("b.business_type = $%d", argPos))
		args = append(args, params.BusinessType)
		argPos++
	}
	if params.Province != "" {
		conditions = append(conditions,
			fmt.Sprintf("b.province = $%d", argPos))
		args = append(args, params.Province)
		argPos++
	}
	if params.Municipality != "" {
		conditions = append(conditions,
			fmt.Sprintf("b.municipality = $%d", argPos))
		args = append(args, params.Municipality)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	from := `
		FROM businesses b
		JOIN licenses l ON l.user_id = b.user_id`

	var total int
	countQuery := `SELECT COUNT(*) ` + from + ` WHERE ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count public businesses: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT b.id, b.name, b.phone, b.province, b.municipality,
		       b.description, b.business_type
		%s
		WHERE %s
		ORDER BY b.name ASC
		LIMIT $%d OFFSET $%d`,
		from, where, argPos, argPos+1)
	args = append(args, params.PageSize, params.Offset())

	var businesses []PublicBusiness
	if err := r.db.SelectContext(ctx, &businesses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list public businesses: %w", err)
	}

	return businesses, total, nil
}

func (r *repository) GetPublicBusiness(
	ctx context.Context,
	id string,
) (*PublicBusiness, error) {
	query := `
		SELECT b.id, b.name, b.phone, b.province, b.municipality,
		       b.description, b.business_type
		FROM businesses b
		JOIN licenses l ON l.user_id = b.user_id
		WHERE b.id = $1 AND ` + visibleBusinesses

	var b PublicBusiness
	err := r.db.GetContext(ctx, &b, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get public business: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get public business: %w", err)
	}

	return &b, nil
}

func (r *repository) ListCategories(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT p.category
		FROM products p
		JOIN businesses b ON b.id = p.business_id
		JOIN licenses l ON l.user_id = b.user_id
		WHERE p.category IS NOT NULL AND ` + visibleProducts + `
		ORDER BY p.category ASC`

	var categories []string
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

func (r *repository) ListBusinessTypes(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT b.business_type
		FROM businesses b
		JOIN licenses l ON l.user_id = b.user_id
		WHERE b.business_type IS NOT NULL AND ` + visibleBusinesses + `
		ORDER BY b.business_type ASC`

	var types []string
	if err := r.db.SelectContext(ctx, &types, query); err != nil {
		return nil, fmt.Errorf("list business types: %w", err)
	}

	return types, nil
}

// ProductForOrder resolves a product a customer is ordering. The
// product must be publicly visible; price and name are read here so
// the order snapshot never trusts client input.
func (r *repository) ProductForOrder(
	ctx context.Context,
	businessID, productID string,
) (*PublicProduct, error) {
	query := `
		SELECT p.id, p.name, p.description, p.category, p.sale_price,
		       p.stock, p.business_id, b.name AS business_name
		FROM products p
		JOIN businesses b ON b.id = p.business_id
		JOIN licenses l ON l.user_id = b.user_id
		WHERE p.id = $1 AND p.business_id = $2 AND ` + visibleProducts

	var p PublicProduct
	err := r.db.GetContext(ctx, &p, query, productID, businessID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product for order: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("product for order: %w", err)
	}

	return &p, nil
}

func (r *repository) CreateOrder(
	ctx context.Context,
	order *Order,
	items []OrderItem,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO orders (
				id, business_id, tracking_code, customer_name,
				customer_phone, delivery_type, delivery_address,
				delivery_municipality, delivery_notes, pickup_time,
				status, total_amount
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING created_at`

		err := tx.GetContext(ctx, &order.CreatedAt, query,
			order.ID,
			order.BusinessID,
			order.TrackingCode,
			order.CustomerName,
			order.CustomerPhone,
			order.DeliveryType,
			order.DeliveryAddress,
			order.DeliveryMunicipality,
			order.DeliveryNotes,
			order.PickupTime,
			order.Status,
			order.TotalAmount,
		)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		itemQuery := `
			INSERT INTO order_items (
				id, order_id, product_id, product_name, quantity, unit_price
			) VALUES ($1, $2, $3, $4, $5, $6)`

		for i := range items {
			_, err := tx.ExecContext(ctx, itemQuery,
				items[i].ID,
				items[i].OrderID,
				items[i].ProductID,
				items[i].ProductName,
				items[i].Quantity,
				items[i].UnitPrice,
			)
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}

		return nil
	})
}

const orderColumns = `
	id, business_id, tracking_code, customer_name, customer_phone,
	delivery_type, delivery_address, delivery_municipality,
	delivery_notes, pickup_time, status, total_amount, created_at`

func (r *repository) GetOrderByTrackingCode(
	ctx context.Context,
	code string,
) (*Order, []OrderItem, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tracking_code = $1`

	var order Order
	err := r.db.GetContext(ctx, &order, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("get order by tracking code: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get order by tracking code: %w", err)
	}

	items, err := r.orderItems(ctx, order.ID)
	if err != nil {
		return nil, nil, err
	}

	return &order, items, nil
}

func (r *repository) ListOrdersForBusiness(
	ctx context.Context,
	businessID string,
	status string,
	page, pageSize int,
) ([]Order, int, error) {
	conditions := []string{"business_id = $1"}
	args := []any{businessID}
	argPos := 2

	if status != "" {
		conditions = append(conditions,
			fmt.Sprintf("status = $%d", argPos))
		args = append(args, status)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM orders WHERE ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM orders
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		orderColumns, where, argPos, argPos+1)
	args = append(args, pageSize, (page-1)*pageSize)

	var orders []Order
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

func (r *repository) GetOrder(
	ctx context.Context,
	businessID, id string,
) (*Order, []OrderItem, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND business_id = $2`

	var order Order
	err := r.db.GetContext(ctx, &order, query, id, businessID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("get order: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get order: %w", err)
	}

	items, err := r.orderItems(ctx, order.ID)
	if err != nil {
		return nil, nil, err
	}

	return &order, items, nil
}

func (r *repository) UpdateOrderStatus(
	ctx context.Context,
	businessID, id, status string,
) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $3 WHERE id = $1 AND business_id = $2`,
		id, businessID, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update order status: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) orderItems(
	ctx context.Context,
	orderID string,
) ([]OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, product_name, quantity, unit_price
		FROM order_items
		WHERE order_id = $1`

	var items []OrderItem
	if err := r.db.SelectContext(ctx, &items, query, orderID); err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}

	return items, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
