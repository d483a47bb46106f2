// Package logout implements the HTTP handler ending the caller's kiosk
// session on explicit logout.
package logout

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

// Service describes the session end business logic.
type Service interface {
	End(ctx context.Context, orgID, userUID, reason string) (*models.Session, error)
}

// Handler handles logout requests.
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
// @Summary Log out
// @Description Ends the caller's active session with the user_logout reason. Logging out without an active session succeeds anyway.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Logged out"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.User).(string)
	orgID, _ := r.Context().Value(middlewarectx.Org).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if _, err := h.service.End(r.Context(), orgID, userUID, models.EndReasonUserLogout); err != nil {
		// A user without a session still logs out cleanly.
		log.Info("logout without active session", sl.Err(err))
	}

	log.Info("user logged out", slog.String("uid", userUID))
	render.JSON(w, r, response.OK())
}
