// Package list implements the admin HTTP handler listing the
// organization's kiosk computers with their active sessions.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Danielsio/SIONYX-sub000/internal/http/middlewarectx"
	"github.com/Danielsio/SIONYX-sub000/internal/http/response"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/sl"
	"github.com/Danielsio/SIONYX-sub000/internal/models"
)

// Service describes the computer list business logic.
type Service interface {
	ListComputers(ctx context.Context, orgID string) ([]*models.Computer, error)
}

// Handler handles computer list requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary List computers
// @Description Lists the kiosk machines of the organization, each with its active session and user when occupied.
// @Tags Computers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Computers"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 403 {object} response.ErrorResponse "Admin only"
// @Failure 500 {object} response.ErrorResponse "Lookup failed"
// @Router /computers [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.computers.list"

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

	computers, err := h.service.ListComputers(r.Context(), orgID)
	if err != nil {
		log.Error("failed to list computers", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list computers"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"computers": computers,
	}))
}
