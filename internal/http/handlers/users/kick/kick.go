// Package kick implements the admin HTTP handler force-ending a user's
// session and logging the kiosk out.
package kick

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Danielsio/SIONYX-sub000/internal/http/middlewarectx"
	"github.com/Danielsio/SIONYX-sub000/internal/http/response"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/sl"
)

// Service describes the kick business logic.
type Service interface {
	Kick(ctx context.Context, orgID, userUID string) error
}

// Handler handles kick requests.
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
// @Summary Kick a user
// @Description Ends the user's active session with the kicked reason and pushes a force logout to the kiosk. Works even when no session is active.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param uid path string true "User uid"
// @Success 200 {object} response.Response "Kicked"
// @Failure 400 {object} response.ErrorResponse "Missing user uid"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 403 {object} response.ErrorResponse "Admin only"
// @Failure 500 {object} response.ErrorResponse "Kick failed"
// @Router /users/{uid}/kick [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.kick"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "uid")
	if userUID == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing user uid"))
		return
	}

	orgID, ok := r.Context().Value(middlewarectx.Org).(string)
	if !ok || orgID == "" {
		log.Error("org id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Kick(r.Context(), orgID, userUID); err != nil {
		log.Error("failed to kick user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to kick user"))
		return
	}

	log.Info("user kicked", slog.String("uid", userUID))
	render.JSON(w, r, response.OK())
}
