// Package readall implements the HTTP handler marking all of the caller's
// unread chat messages as read.
package readall

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Danielsio/SIONYX-sub000/internal/http/middlewarectx"
	"github.com/Danielsio/SIONYX-sub000/internal/http/response"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/sl"
)

// Service describes the mark-all-read business logic.
type Service interface {
	MarkAllRead(ctx context.Context, userUID string) (int, error)
}

// Handler handles read-all requests.
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
// @Summary Mark all messages read
// @Description Marks every unread message of the caller as read and returns how many were updated.
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Changed row count"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 500 {object} response.ErrorResponse "Update failed"
// @Router /chat/read-all [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.readall"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	count, err := h.service.MarkAllRead(r.Context(), userUID)
	if err != nil {
		log.Error("failed to mark all read", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to mark all read"))
		return
	}

	log.Info("all messages marked read", slog.String("uid", userUID), slog.Int("updated", count))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"updated": count,
	}))
}
