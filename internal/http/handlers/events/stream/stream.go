// Package stream implements the SSE endpoint pushing real-time events to
// kiosk and admin clients.
//
// Kiosk clients receive their personal feed; admins may request the full
// organization feed with scope=org. EventSource cannot set headers, so
// the JWT middleware also accepts the token query parameter here.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Danielsio/SIONYX-sub000/internal/events"
	"github.com/Danielsio/SIONYX-sub000/internal/http/middlewarectx"
	"github.com/Danielsio/SIONYX-sub000/internal/http/response"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/sl"
)

// Heartbeat keeps idle connections from being dropped by proxies.
const heartbeatInterval = 15 * time.Second

// Bus describes the event subscriptions the stream needs.
type Bus interface {
	SubscribeUser(ctx context.Context, orgID, userUID string) <-chan events.Event
	SubscribeOrg(ctx context.Context, orgID string) <-chan events.Event
}

// Handler handles SSE stream requests.
type Handler struct {
	log *slog.Logger
	bus Bus
}

// New creates a new Handler.
func New(log *slog.Logger, bus Bus) *Handler {
	return &Handler{
		log: log,
		bus: bus,
	}
}

// ServeHTTP godoc
// @Summary Real-time event stream
// @Description Server-sent events feed. Users get their personal events; admins may pass scope=org for the whole organization.
// @Tags Events
// @Produce text/event-stream
// @Security BearerAuth
// @Param scope query string false "org for the organization feed (admin only)"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 403 {object} response.ErrorResponse "Org scope requires admin"
// @Router /events/stream [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.events.stream"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.User).(string)
	orgID, _ := r.Context().Value(middlewarectx.Org).(string)
	role, _ := r.Context().Value(middlewarectx.Role).(string)
	if !ok || userUID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("response writer does not support flushing")
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("streaming unsupported"))
		return
	}

	var feed <-chan events.Event
	if r.URL.Query().Get("scope") == "org" {
		if role != "admin" {
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("org scope requires admin"))
			return
		}
		feed = h.bus.SubscribeOrg(r.Context(), orgID)
	} else {
		feed = h.bus.SubscribeUser(r.Context(), orgID, userUID)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	log.Info("stream opened", slog.String("uid", userUID))
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Info("stream closed", slog.String("uid", userUID))
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case ev, open := <-feed:
			if !open {
				return
			}
			body, err := json.Marshal(ev)
			if err != nil {
				log.Warn("failed to encode event", sl.Err(err))
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, body)
			flusher.Flush()
		}
	}
}
