// Package remove implements the admin HTTP handler retiring a catalog
// package. Removal is soft so old purchases keep their reference.
package remove

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

// Service describes the package removal business logic.
type Service interface {
	Remove(ctx context.Context, orgID string, id int) (int, error)
}

// Handler handles package removal requests.
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
// @Summary Remove a package
// @Description Retires a package from the catalog. Returns the number of changed records (0 when the id is unknown).
// @Tags Packages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Package id"
// @Success 200 {object} map[string]any "Changed record count"
// @Failure 400 {object} response.ErrorResponse "Bad package id"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 403 {object} response.ErrorResponse "Admin only"
// @Failure 500 {object} response.ErrorResponse "Removal failed"
// @Router /packages/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		log.Error("bad package id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("bad package id"))
		return
	}

	orgID, ok := r.Context().Value(middlewarectx.Org).(string)
	if !ok || orgID == "" {
		log.Error("org id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	count, err := h.service.Remove(r.Context(), orgID, id)
	if err != nil {
		log.Error("failed to remove package", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to remove package"))
		return
	}

	log.Info("package removed", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"removed": count,
	}))
}
