// Package hours implements the HTTP handler answering whether the
// organization is currently open, with the weekly schedule attached.
package hours

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Danielsio/SIONYX-sub000/internal/http/middlewarectx"
	"github.com/Danielsio/SIONYX-sub000/internal/http/response"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/sl"
	org "github.com/Danielsio/SIONYX-sub000/internal/services/org"
)

// Service describes the operating hours lookup.
type Service interface {
	Hours(ctx context.Context, orgID string) (*org.HoursStatus, error)
}

// Handler handles operating hours requests.
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
// @Summary Operating hours status
// @Description Reports whether the organization is open right now, with a reason when closed and the full weekly schedule.
// @Tags Org
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Open flag, reason and schedule"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 500 {object} response.ErrorResponse "Lookup failed"
// @Router /org/hours [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.org.hours"

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

	status, err := h.service.Hours(r.Context(), orgID)
	if err != nil {
		log.Error("failed to resolve operating hours", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to resolve operating hours"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"hours": status,
	}))
}
