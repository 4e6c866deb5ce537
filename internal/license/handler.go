// AngelaMos | 2026
// handler.go

package license

import (
	"encoding/json"
	"errors"
	"net/http"

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
	r.Route("/license", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.GetMyLicense)
		r.Post("/renewals", h.RequestRenewal)
		r.Get("/renewals", h.ListMyRenewals)
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/renewals", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.ListPendingRenewals)
		r.Put("/{renewalID}", h.ProcessRenewal)
	})
}

func (h *Handler) GetMyLicense(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	lic, err := h.service.GetForUser(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, lic)
}

func (h *Handler) RequestRenewal(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req RequestRenewalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	renewal, err := h.service.RequestRenewal(r.Context(), userID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, renewal)
}

func (h *Handler) ListMyRenewals(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	renewals, err := h.service.ListRenewalsForUser(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, renewals)
}

func (h *Handler) ListPendingRenewals(w http.ResponseWriter, r *http.Request) {
	renewals, err := h.service.ListPendingRenewals(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, renewals)
}

func (h *Handler) ProcessRenewal(w http.ResponseWriter, r *http.Request) {
	renewalID := chi.URLParam(r, "renewalID")

	var req ProcessRenewalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	renewal, err := h.service.ProcessRenewal(r.Context(), renewalID, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "renewal")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.OK(w, renewal)
}
