// Package end implements the HTTP handler closing the caller's active
// session.
package end

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Danielsio/SIONYX-sub000/internal/http/middlewarectx"
	"github.com/Danielsio/SIONYX-sub000/internal/http/response"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/sl"
	"github.com/Danielsio/SIONYX-sub000/internal/models"
	"github.com/Danielsio/SIONYX-sub000/internal/storage/repository"
)

// Request holds the optional end reason. Kiosks send user_logout; the
// default covers clients that send an empty body.
type Request struct {
	Reason string `json:"reason"`
}

// Service describes the session end business logic.
type Service interface {
	End(ctx context.Context, orgID, userUID, reason string) (*models.Session, error)
}

// Handler handles session end requests.
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
// @Summary End the active session
// @Description Closes the caller's active session. Ending an already-ended session is a no-op that returns the recorded end reason.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request false "Optional end reason"
// @Success 200 {object} map[string]any "Ended session"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 404 {object} response.ErrorResponse "No session to end"
// @Router /sessions/end [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.end"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req.Reason = ""
	}
	if req.Reason == "" {
		req.Reason = models.EndReasonUserLogout
	}

	userUID, ok := r.Context().Value(middlewarectx.User).(string)
	orgID, _ := r.Context().Value(middlewarectx.Org).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	sess, err := h.service.End(r.Context(), orgID, userUID, req.Reason)
	if err != nil {
		if errors.Is(err, repository.ErrNoActiveSession) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("no session to end"))
			return
		}
		log.Error("failed to end session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to end session"))
		return
	}

	log.Info("session ended", slog.Int("session_id", sess.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"session": models.NewSessionView(sess),
	}))
}
