// AngelaMos | 2026
// handler.go

package ledger

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/sales", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.RegisterSale)
		r.Get("/", h.ListSales)
		r.Get("/{saleID}", h.GetSale)
		r.Delete("/{saleID}", h.UndoSale)
	})

	r.Route("/purchases", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.RegisterPurchase)
		r.Get("/", h.ListPurchases)
		r.Get("/{purchaseID}", h.GetPurchase)
		r.Delete("/{purchaseID}", h.UndoPurchase)
	})

	r.Route("/expenses", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.RegisterExpense)
		r.Get("/", h.ListExpenses)
		r.Get("/{expenseID}", h.GetExpense)
		r.Delete("/{expenseID}", h.UndoExpense)
	})
}

func (h *Handler) RegisterSale(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req RegisterSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	sale, err := h.service.RegisterSale(r.Context(), userID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToSaleResponse(sale))
}

func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	params := listParams(r)

	sales, total, err := h.service.ListSales(r.Context(), userID, params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w, ToSaleResponseList(sales), params.Page, params.PageSize, total)
}

func (h *Handler) GetSale(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	saleID := chi.URLParam(r, "saleID")

	sale, err := h.service.GetSale(r.Context(), userID, saleID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToSaleResponse(sale))
}

func (h *Handler) UndoSale(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	saleID := chi.URLParam(r, "saleID")

	if err := h.service.UndoSale(r.Context(), userID, saleID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) RegisterPurchase(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req RegisterPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	purchase, err := h.service.RegisterPurchase(r.Context(), userID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToPurchaseResponse(purchase))
}

func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	params := listParams(r)

	purchases, total, err := h.service.ListPurchases(r.Context(), userID, params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w, ToPurchaseResponseList(purchases), params.Page, params.PageSize, total)
}

func (h *Handler) GetPurchase(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	purchaseID := chi.URLParam(r, "purchaseID")

	purchase, err := h.service.GetPurchase(r.Context(), userID, purchaseID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToPurchaseResponse(purchase))
}

// UndoPurchase accepts an optional body naming a replacement card to
// refund when the original card is gone.
func (h *Handler) UndoPurchase(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	purchaseID := chi.URLParam(r, "purchaseID")

	var req UndoPurchaseRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.UndoPurchase(r.Context(), userID, purchaseID, req.CardID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) RegisterExpense(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req RegisterExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	expense, err := h.service.RegisterExpense(r.Context(), userID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToExpenseResponse(expense))
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	params := listParams(r)

	expenses, total, err := h.service.ListExpenses(r.Context(), userID, params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w, ToExpenseResponseList(expenses), params.Page, params.PageSize, total)
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	expenseID := chi.URLParam(r, "expenseID")

	expense, err := h.service.GetExpense(r.Context(), userID, expenseID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToExpenseResponse(expense))
}

// UndoExpense requires the card to credit in the body when the expense
// debited one.
func (h *Handler) UndoExpense(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	expenseID := chi.URLParam(r, "expenseID")

	var req UndoExpenseRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.UndoExpense(r.Context(), userID, expenseID, req.CardID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

// decodeOptionalBody tolerates an empty body on DELETE requests.
func decodeOptionalBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == io.EOF {
		return nil
	}
	return err
}

func listParams(r *http.Request) ListParams {
	return ListParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
	}
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
