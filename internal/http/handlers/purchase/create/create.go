// Package create implements the HTTP handler opening a pending purchase
// and returning the processor checkout the kiosk should open.
package create

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
	purchase "github.com/Danielsio/SIONYX-sub000/internal/services/purchase"
)

// Request holds the purchase input.
type Request struct {
	PackageID int `json:"package_id" validate:"required,gt=0"`
}

// Service describes the purchase creation business logic.
type Service interface {
	CreatePending(ctx context.Context, orgID, userUID string, packageID int) (*purchase.PendingPurchase, error)
}

// Handler handles purchase creation requests.
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

// ServeHTTP godoc
// @Summary Create a pending purchase
// @Description Opens a pending purchase for a package and returns the checkout URL. The balance is credited later, when the processor confirms payment.
// @Tags Purchases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Package to buy"
// @Success 200 {object} map[string]any "Pending purchase and checkout"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 422 {object} response.ErrorResponse "Validation error"
// @Failure 500 {object} response.ErrorResponse "Creation failed"
// @Router /purchases [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.purchase.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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

	userUID, ok := r.Context().Value(middlewarectx.User).(string)
	orgID, _ := r.Context().Value(middlewarectx.Org).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	pending, err := h.service.CreatePending(r.Context(), orgID, userUID, req.PackageID)
	if err != nil {
		log.Error("failed to create purchase", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create purchase"))
		return
	}

	log.Info("purchase created", slog.String("purchase_uid", pending.PurchaseUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"purchase": pending,
	}))
}
