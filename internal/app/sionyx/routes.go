// Package sionyx registers the routes of the API binary.
package sionyx

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Danielsio/SIONYX-sub000/internal/http/handlers/auth/login"
	"github.com/Danielsio/SIONYX-sub000/internal/http/handlers/auth/logout"
	"github.com/Danielsio/SIONYX-sub000/internal/http/handlers/auth/me"
	"github.com/Danielsio/SIONYX-sub000/internal/http/handlers/auth/register"
	catalogcreate "github.com/Danielsio/SIONYX-sub000/internal/http/handlers/catalog/create"
	cataloglist "github.com/Danielsio/SIONYX-sub000/internal/http/handlers/catalog/list"
	catalogremove "github.com/Danielsio/SIONYX-sub000/internal/http/handlers/catalog/remove"
	catalogupdate "github.com/Danielsio/SIONYX-sub000/internal/http/handlers/catalog/update"
	"github.com/Danielsio/SIONYX-sub000/internal/http/handlers/chat/markread"
	"github.com/Danielsio/SIONYX-sub000/internal/http/handlers/chat/readall"
	"github.com/Danielsio/SIONYX-sub000/internal/http/handlers/chat/send"
	"github.com/Danielsio/SIONYX-sub000/internal/http/handlers/chat/unread"
	computerslist "github.com/Danielsio/SIONYX-sub000/internal/http/handlers/computers/list"
	"github.com/Danielsio/SIONYX-sub000/internal/http/handlers/events/stream"
	"github.com/Danielsio/SIONYX-sub000/internal/http/handlers/health"
	"github.com/Danielsio/SIONYX-sub000/internal/http/handlers/org/contact"
	orghours "github.com/Danielsio/SIONYX-sub000/internal/http/handlers/org/hours"
	"github.com/Danielsio/SIONYX-sub000/internal/http/handlers/org/printpricing"
	"github.com/Danielsio/SIONYX-sub000/internal/http/handlers/org/sethours"
	"github.com/Danielsio/SIONYX-sub000/internal/http/handlers/session/end"
	"github.com/Danielsio/SIONYX-sub000/internal/http/handlers/session/start"
	"github.com/Danielsio/SIONYX-sub000/internal/http/handlers/org/stats"
	purchasecreate "github.com/Danielsio/SIONYX-sub000/internal/http/handlers/purchase/create"
	purchasehistory "github.com/Danielsio/SIONYX-sub000/internal/http/handlers/purchase/history"
	purchasewebhook "github.com/Danielsio/SIONYX-sub000/internal/http/handlers/purchase/webhook"
	usersadjust "github.com/Danielsio/SIONYX-sub000/internal/http/handlers/users/adjust"
	usersgrantadmin "github.com/Danielsio/SIONYX-sub000/internal/http/handlers/users/grantadmin"
	userskick "github.com/Danielsio/SIONYX-sub000/internal/http/handlers/users/kick"
	userslist "github.com/Danielsio/SIONYX-sub000/internal/http/handlers/users/list"
	"github.com/Danielsio/SIONYX-sub000/internal/http/middlewarectx"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/jwt"
	authservice "github.com/Danielsio/SIONYX-sub000/internal/services/auth"
	catalogservice "github.com/Danielsio/SIONYX-sub000/internal/services/catalog"
	chatservice "github.com/Danielsio/SIONYX-sub000/internal/services/chat"
	orgservice "github.com/Danielsio/SIONYX-sub000/internal/services/org"
	purchaseservice "github.com/Danielsio/SIONYX-sub000/internal/services/purchase"
	sessionservice "github.com/Danielsio/SIONYX-sub000/internal/services/session"
	usersservice "github.com/Danielsio/SIONYX-sub000/internal/services/users"
)

// Services bundles everything the routes need.
type Services struct {
	JWTMaker  jwt.Maker
	Auth      *authservice.AuthService
	Session   *sessionservice.SessionService
	Chat      *chatservice.ChatService
	Catalog   *catalogservice.CatalogService
	Purchase  *purchaseservice.PurchaseService
	Org       *orgservice.OrgService
	Users     *usersservice.UserAdminService
	Computers computerslist.Service
	Bus       stream.Bus
}

// RegisterRoutes registers every route of the application.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services, webhookSecret string) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Open endpoints
		r.Post("/auth/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)

		// Group with JWT authentication
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.JWTMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/auth/logout", logout.New(logger, s.Session).ServeHTTP)
			r.Get("/auth/me", me.New(logger, s.Auth).ServeHTTP)

			r.Post("/sessions/start", start.New(logger, s.Session).ServeHTTP)
			r.Post("/sessions/end", end.New(logger, s.Session).ServeHTTP)

			r.Get("/events/stream", stream.New(logger, s.Bus).ServeHTTP)

			r.Get("/chat/unread", unread.New(logger, s.Chat).ServeHTTP)
			r.Post("/chat/messages/{id}/read", markread.New(logger, s.Chat).ServeHTTP)
			r.Post("/chat/read-all", readall.New(logger, s.Chat).ServeHTTP)

			r.Get("/packages", cataloglist.New(logger, s.Catalog).ServeHTTP)

			r.Post("/purchases", purchasecreate.New(logger, s.Purchase).ServeHTTP)
			r.Get("/purchases/history", purchasehistory.New(logger, s.Purchase).ServeHTTP)

			r.Get("/org/contact", contact.New(logger, s.Org).ServeHTTP)
			r.Get("/org/hours", orghours.New(logger, s.Org).ServeHTTP)

			// Admin-only group
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminMiddleware(logger))

				r.Post("/chat/send", send.New(logger, s.Chat).ServeHTTP)

				r.Post("/packages", catalogcreate.New(logger, s.Catalog).ServeHTTP)
				r.Put("/packages/{id}", catalogupdate.New(logger, s.Catalog).ServeHTTP)
				r.Delete("/packages/{id}", catalogremove.New(logger, s.Catalog).ServeHTTP)

				r.Put("/org/hours", sethours.New(logger, s.Org).ServeHTTP)
				r.Get("/org/stats", stats.New(logger, s.Org).ServeHTTP)
				pricing := printpricing.New(logger, s.Org)
				r.Get("/org/print-pricing", pricing.Get)
				r.Put("/org/print-pricing", pricing.Update)

				r.Get("/users", userslist.New(logger, s.Users).ServeHTTP)
				r.Post("/users/{uid}/adjust-balance", usersadjust.New(logger, s.Users).ServeHTTP)
				r.Post("/users/{uid}/grant-admin", usersgrantadmin.New(logger, s.Users).ServeHTTP)
				r.Post("/users/{uid}/kick", userskick.New(logger, s.Users).ServeHTTP)

				r.Get("/computers", computerslist.New(logger, s.Computers).ServeHTTP)
			})
		})

		// Webhook endpoint (authenticated by signature, not JWT)
		r.Post("/purchases/webhook", purchasewebhook.New(logger, s.Purchase, webhookSecret).ServeHTTP)

		r.Get("/health", health.New(logger).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
