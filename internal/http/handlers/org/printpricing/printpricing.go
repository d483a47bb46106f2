// Package printpricing implements the admin HTTP handlers reading and
// replacing the organization's per-page print prices.
package printpricing

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/Danielsio/SIONYX-sub000/internal/http/middlewarectx"
	"github.com/Danielsio/SIONYX-sub000/internal/http/response"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/sl"
	"github.com/Danielsio/SIONYX-sub000/internal/models"
)

// Service describes the print pricing business logic.
type Service interface {
	PrintPricing(ctx context.Context, orgID string) (*models.PrintPricing, error)
	SetPrintPricing(ctx context.Context, orgID string, p models.PrintPricing) error
}

// Handler handles print pricing requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// Get godoc
// @Summary Print pricing
// @Description Returns the per-page prices for black-and-white and color prints, in the smallest currency unit.
// @Tags Org
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Current pricing"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 403 {object} response.ErrorResponse "Admin only"
// @Failure 500 {object} response.ErrorResponse "Lookup failed"
// @Router /org/print-pricing [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.org.printpricing.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	orgID, ok := r.Context().Value(middlewarectx.Org).(string)
	if !ok || orgID == "" {
		log.Error("org id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	pricing, err := h.service.PrintPricing(r.Context(), orgID)
	if err != nil {
		log.Error("failed to load print pricing", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load print pricing"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"pricing": pricing,
	}))
}

// Update godoc
// @Summary Update print pricing
// @Description Replaces the per-page print prices.
// @Tags Org
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.PrintPricing true "New pricing"
// @Success 200 {object} response.Response "Updated"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 403 {object} response.ErrorResponse "Admin only"
// @Failure 422 {object} response.ErrorResponse "Validation error"
// @Failure 500 {object} response.ErrorResponse "Update failed"
// @Router /org/print-pricing [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.org.printpricing.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.PrintPricing
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	orgID, ok := r.Context().Value(middlewarectx.Org).(string)
	if !ok || orgID == "" {
		log.Error("org id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.SetPrintPricing(r.Context(), orgID, req); err != nil {
		log.Error("failed to update print pricing", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update print pricing"))
		return
	}

	log.Info("print pricing updated", slog.String("org_id", orgID))
	render.JSON(w, r, response.OK())
}
