// AngelaMos | 2026
// handler.go

package storefront

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/rodolfoorg/mi-empresa-virtual/internal/core"
	"github.com/rodolfoorg/mi-empresa-virtual/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterPublicRoutes mounts the unauthenticated storefront surface.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Route("/store", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/products/categories", h.ListCategories)
		r.Get("/businesses", h.ListBusinesses)
		r.Get("/businesses/types", h.ListBusinessTypes)
		r.Get("/businesses/{businessID}", h.GetBusiness)
		r.Get("/businesses/{businessID}/products", h.ListBusinessProducts)

		r.Post("/orders", h.CreateOrder)
		r.Get("/orders/{trackingCode}", h.TrackOrder)
	})
}

// RegisterOwnerRoutes mounts the authenticated order-management
// surface for business owners.
func (h *Handler) RegisterOwnerRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/orders", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListOrders)
		r.Get("/{orderID}", h.GetOrder)
		r.Put("/{orderID}/status", h.UpdateOrderStatus)
	})
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := catalogParams(r)

	products, total, err := h.service.ListProducts(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToPublicProductResponseList(products),
		params.Page, params.PageSize, total)
}

func (h *Handler) ListBusinessProducts(w http.ResponseWriter, r *http.Request) {
	params := catalogParams(r)
	params.BusinessID = chi.URLParam(r, "businessID")

	products, total, err := h.service.ListProducts(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToPublicProductResponseList(products),
		params.Page, params.PageSize, total)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, categories)
}

func (h *Handler) ListBusinesses(w http.ResponseWriter, r *http.Request) {
	params := DirectoryParams{
		Page:         parseIntQuery(r, "page", 1),
		PageSize:     parseIntQuery(r, "page_size", 20),
		Search:       r.URL.Query().Get("search"),
		BusinessType: r.URL.Query().Get("type"),
		Province:     r.URL.Query().Get("province"),
		Municipality: r.URL.Query().Get("municipality"),
	}
	params.Normalize()

	businesses, total, err := h.service.ListBusinesses(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToPublicBusinessResponseList(businesses),
		params.Page, params.PageSize, total)
}

func (h *Handler) ListBusinessTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.ListBusinessTypes(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, types)
}

func (h *Handler) GetBusiness(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")

	b, err := h.service.GetBusiness(r.Context(), businessID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToPublicBusinessResponse(b))
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	order, items, err := h.service.CreateOrder(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToOrderResponse(order, items))
}

func (h *Handler) TrackOrder(w http.ResponseWriter, r *http.Request) {
	trackingCode := chi.URLParam(r, "trackingCode")

	order, items, err := h.service.TrackOrder(r.Context(), trackingCode)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToOrderResponse(order, items))
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	page := parseIntQuery(r, "page", 1)
	pageSize := parseIntQuery(r, "page_size", 20)
	status := r.URL.Query().Get("status")

	orders, total, err := h.service.ListOrders(r.Context(), userID, status, page, pageSize)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w, ToOrderResponseList(orders), page, pageSize, total)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	orderID := chi.URLParam(r, "orderID")

	order, items, err := h.service.GetOrder(r.Context(), userID, orderID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToOrderResponse(order, items))
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	orderID := chi.URLParam(r, "orderID")

	var req UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.UpdateOrderStatus(r.Context(), userID, orderID, req.Status); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func catalogParams(r *http.Request) CatalogParams {
	params := CatalogParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
		SortBy:   r.URL.Query().Get("sort"),
	}

	if v := r.URL.Query().Get("min_price"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			params.MinPrice = &d
		}
	}
	if v := r.URL.Query().Get("max_price"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			params.MaxPrice = &d
		}
	}

	params.Normalize()
	return params
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
