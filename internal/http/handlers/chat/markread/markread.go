// Package markread implements the HTTP handler marking one chat message
// as read.
package markread

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Danielsio/SIONYX-sub000/internal/http/middlewarectx"
	"github.com/Danielsio/SIONYX-sub000/internal/http/response"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/sl"
)

// Service describes the mark-read business logic.
type Service interface {
	MarkRead(ctx context.Context, userUID string, id int) (int, error)
}

// Handler handles mark-read requests.
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
// @Summary Mark a message read
// @Description Marks one of the caller's messages as read. A message of another user or an already-read message changes nothing.
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message id"
// @Success 200 {object} map[string]any "Changed row count"
// @Failure 400 {object} response.ErrorResponse "Bad message id"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 500 {object} response.ErrorResponse "Update failed"
// @Router /chat/messages/{id}/read [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.markread"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		log.Error("bad message id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("bad message id"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	count, err := h.service.MarkRead(r.Context(), userUID, id)
	if err != nil {
		log.Error("failed to mark message read", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to mark message read"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"updated": count,
	}))
}
