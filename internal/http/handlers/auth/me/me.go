// Package me implements the HTTP handler returning the caller's profile,
// which doubles as the logged-in check for kiosk clients.
package me

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

// Service describes the profile lookup.
type Service interface {
	Profile(ctx context.Context, userUID string) (*models.User, error)
}

// Handler handles profile requests.
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
// @Summary Current user profile
// @Description Returns the profile behind the presented token. A 401 means the token is missing or expired.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any "User profile"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 500 {object} response.ErrorResponse "Lookup failed"
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

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

	user, err := h.service.Profile(r.Context(), userUID)
	if err != nil {
		log.Error("failed to load profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load profile"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": models.NewUserProfile(user),
	}))
}
