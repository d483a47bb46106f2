// Package unread implements the HTTP handler listing the caller's unread
// chat messages, optionally through the Redis cache.
package unread

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

// Service describes the unread list business logic.
type Service interface {
	Unread(ctx context.Context, userUID string, useCache bool) ([]*models.Message, error)
}

// Handler handles unread list requests.
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
// @Summary Unread messages
// @Description Lists the caller's unread messages. use_cache=false forces a storage read, e.g. right after the kiosk reconnects.
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param use_cache query bool false "Consult the cache first (default true)"
// @Success 200 {object} map[string]any "Unread messages"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 500 {object} response.ErrorResponse "Lookup failed"
// @Router /chat/unread [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.unread"

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

	useCache := r.URL.Query().Get("use_cache") != "false"

	msgs, err := h.service.Unread(r.Context(), userUID, useCache)
	if err != nil {
		log.Error("failed to list unread messages", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list unread messages"))
		return
	}

	views := make([]models.MessageView, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, models.NewMessageView(m))
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"messages": views,
		"count":    len(views),
	}))
}
