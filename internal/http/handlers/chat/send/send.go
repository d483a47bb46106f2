// Package send implements the admin HTTP handler sending a chat message
// to a user.
package send

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
	chatservice "github.com/Danielsio/SIONYX-sub000/internal/services/chat"
)

// Request holds the message input.
type Request struct {
	ToUID string `json:"to_uid" validate:"required,uuid4"`
	Body  string `json:"body" validate:"required,min=1,max=2000"`
}

// Service describes the send business logic.
type Service interface {
	Send(ctx context.Context, orgID, fromUID, toUID, body string) (*models.Message, error)
}

// Handler handles message send requests.
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
// @Summary Send a message
// @Description Sends a chat message to a user. The message is pushed to the user's live stream and relayed by email when the user has one.
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Recipient and body"
// @Success 200 {object} map[string]any "Stored message"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 403 {object} response.ErrorResponse "Admin only"
// @Failure 404 {object} response.ErrorResponse "Recipient not found"
// @Failure 422 {object} response.ErrorResponse "Validation error"
// @Failure 500 {object} response.ErrorResponse "Send failed"
// @Router /chat/send [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.send"

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

	fromUID, ok := r.Context().Value(middlewarectx.User).(string)
	orgID, _ := r.Context().Value(middlewarectx.Org).(string)
	if !ok || fromUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	msg, err := h.service.Send(r.Context(), orgID, fromUID, req.ToUID, req.Body)
	if err != nil {
		if errors.Is(err, chatservice.ErrRecipientNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("recipient not found"))
			return
		}
		log.Error("failed to send message", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to send message"))
		return
	}

	log.Info("message sent", slog.Int("id", msg.ID), slog.String("to", req.ToUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": models.NewMessageView(msg),
	}))
}
