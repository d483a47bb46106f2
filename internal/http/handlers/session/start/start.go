// Package start implements the HTTP handler opening a countdown session
// on a kiosk computer.
package start

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/Danielsio/SIONYX-sub000/internal/http/middlewarectx"
	"github.com/Danielsio/SIONYX-sub000/internal/http/response"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/sl"
	"github.com/Danielsio/SIONYX-sub000/internal/models"
	session "github.com/Danielsio/SIONYX-sub000/internal/services/session"
)

// Request holds the session start input.
type Request struct {
	ComputerName string `json:"computer_name" validate:"required,min=1,max=100"`
}

// Service describes the session start business logic.
type Service interface {
	Start(ctx context.Context, orgID, userUID, computerName string) (*models.Session, error)
}

// Handler handles session start requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Start a session
// @Description Opens a countdown session on the named computer. Refused outside operating hours, with an empty time balance, or when the user or computer already has an active session.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Computer to start on"
// @Success 200 {object} map[string]any "Started session"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 403 {object} response.ErrorResponse "Outside operating hours or no balance"
// @Failure 409 {object} response.ErrorResponse "Session already active"
// @Failure 422 {object} response.ErrorResponse "Validation error"
// @Router /sessions/start [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.start"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.User).(string)
	orgID, _ := r.Context().Value(middlewarectx.Org).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	sess, err := h.service.Start(r.Context(), orgID, userUID, req.ComputerName)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrOutsideOperatingHours):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("outside operating hours"))
		case errors.Is(err, session.ErrNoTimeBalance):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("no time balance"))
		case errors.Is(err, session.ErrSessionConflict):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("session already active"))
		default:
			log.Error("failed to start session", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to start session"))
		}
		return
	}

	log.Info("session started", slog.Int("session_id", sess.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"session": models.NewSessionView(sess),
	}))
}
