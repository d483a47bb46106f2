// Package adjust implements the admin HTTP handler applying a signed
// delta to a user's time and print balances.
package adjust

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Danielsio/SIONYX-sub000/internal/http/middlewarectx"
	"github.com/Danielsio/SIONYX-sub000/internal/http/response"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/sl"
	"github.com/Danielsio/SIONYX-sub000/internal/models"
	"github.com/Danielsio/SIONYX-sub000/internal/storage/repository"
)

// Service describes the balance adjustment business logic.
type Service interface {
	AdjustBalance(ctx context.Context, orgID, userUID string, adj models.BalanceAdjustment) (*models.User, error)
}

// Handler handles balance adjustment requests.
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
// @Summary Adjust a user's balances
// @Description Applies signed deltas to the time and print balances. Results are clamped at zero; the updated profile is returned and pushed to the user's kiosk.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uid path string true "User uid"
// @Param request body models.BalanceAdjustment true "Signed deltas"
// @Success 200 {object} map[string]any "Updated profile"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 403 {object} response.ErrorResponse "Admin only"
// @Failure 404 {object} response.ErrorResponse "User not found"
// @Failure 500 {object} response.ErrorResponse "Adjustment failed"
// @Router /users/{uid}/adjust-balance [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.adjust"

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

	var adj models.BalanceAdjustment
	if err := json.NewDecoder(r.Body).Decode(&adj); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	orgID, ok := r.Context().Value(middlewarectx.Org).(string)
	if !ok || orgID == "" {
		log.Error("org id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	user, err := h.service.AdjustBalance(r.Context(), orgID, userUID, adj)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to adjust balance", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to adjust balance"))
		return
	}

	log.Info("balance adjusted", slog.String("uid", userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": models.NewUserProfile(user),
	}))
}
