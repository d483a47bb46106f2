// Package list implements the HTTP handler listing the packages a user
// can buy.
package list

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

// Service describes the package list business logic.
type Service interface {
	List(ctx context.Context, orgID string) ([]*models.Package, error)
}

// Handler handles package list requests.
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
// @Summary List packages
// @Description Lists the organization's active packages with final prices after discount.
// @Tags Packages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Active packages"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 500 {object} response.ErrorResponse "Lookup failed"
// @Router /packages [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	orgID, ok := r.Context().Value(middlewarectx.Org).(string)
	if !ok || orgID == "" {
		log.Error("org id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	pkgs, err := h.service.List(r.Context(), orgID)
	if err != nil {
		log.Error("failed to list packages", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list packages"))
		return
	}

	views := make([]models.PackageView, 0, len(pkgs))
	for _, p := range pkgs {
		views = append(views, models.NewPackageView(p))
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"packages": views,
	}))
}
