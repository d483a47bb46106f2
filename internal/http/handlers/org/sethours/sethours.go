// Package sethours implements the admin HTTP handler replacing the
// organization's weekly schedule.
package sethours

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
)

// Request holds the new schedule. Seven comma-separated day windows,
// Sunday first, each either HH:MM-HH:MM or "-" for a closed day.
type Request struct {
	Schedule string `json:"schedule" validate:"required"`
}

// Service describes the schedule update business logic.
type Service interface {
	SetHours(ctx context.Context, orgID, schedule string) error
}

// Handler handles schedule update requests.
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
// @Summary Update operating hours
// @Description Replaces the weekly schedule. The string holds seven comma-separated windows, Sunday first, HH:MM-HH:MM or - for closed.
// @Tags Org
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "New weekly schedule"
// @Success 200 {object} response.Response "Updated"
// @Failure 400 {object} response.ErrorResponse "Bad JSON or schedule format"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 403 {object} response.ErrorResponse "Admin only"
// @Failure 422 {object} response.ErrorResponse "Validation error"
// @Router /org/hours [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.org.sethours"

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

	orgID, ok := r.Context().Value(middlewarectx.Org).(string)
	if !ok || orgID == "" {
		log.Error("org id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.SetHours(r.Context(), orgID, req.Schedule); err != nil {
		log.Error("failed to update schedule", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("bad schedule format"))
		return
	}

	log.Info("schedule updated", slog.String("org_id", orgID))
	render.JSON(w, r, response.OK())
}
