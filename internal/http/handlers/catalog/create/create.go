// Package create implements the admin HTTP handler adding a package to
// the catalog.
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
	"github.com/Danielsio/SIONYX-sub000/internal/models"
)

// Service describes the package creation business logic.
type Service interface {
	Create(ctx context.Context, orgID string, req models.DummyPackage) (int, error)
}

// Handler handles package creation requests.
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
// @Summary Create a package
// @Description Adds a purchasable package to the organization's catalog. Returns the id of the created record.
// @Tags Packages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummyPackage true "New package data"
// @Success 200 {object} map[string]any "Created package id"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 403 {object} response.ErrorResponse "Admin only"
// @Failure 422 {object} response.ErrorResponse "Validation error"
// @Failure 500 {object} response.ErrorResponse "Creation failed"
// @Router /packages [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPackage
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

	id, err := h.service.Create(r.Context(), orgID, req)
	if err != nil {
		log.Error("failed to create package", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create package"))
		return
	}

	log.Info("package created", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
