package router

import (
	"net/http"

	"supplyhub/internal/handler"
	"supplyhub/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler        *handler.Handler
	AuthHandler    *handler.AuthHandler
	SellerHandler  *handler.SellerHandler
	SupplyHandler  *handler.SupplyHandler
	UserHandler    *handler.UserHandler
	AuthMiddleware func(http.Handler) http.Handler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Session-Token"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// PUBLIC routes (no auth required)
	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
	}
	if cfg.AuthHandler != nil {
		r.Post("/auth/register", cfg.AuthHandler.Register)
		r.Post("/auth/login", cfg.AuthHandler.Login)
	}

	// AUTHENTICATED routes
	r.Group(func(r chi.Router) {
		if cfg.AuthMiddleware != nil {
			r.Use(cfg.AuthMiddleware)
		}

		if cfg.Handler != nil {
			r.Get("/health", cfg.Handler.Health)
			r.Get("/ready", cfg.Handler.Ready)
		}

		if cfg.AuthHandler != nil {
			r.Post("/auth/logout", cfg.AuthHandler.Logout)
		}

		if cfg.SellerHandler != nil {
			r.Route("/seller", func(r chi.Router) {
				r.Get("/", cfg.SellerHandler.List)
				r.Post("/", cfg.SellerHandler.Create)
				r.Put("/", cfg.SellerHandler.Update)
				r.Delete("/", cfg.SellerHandler.Delete)
			})
		}

		if cfg.SupplyHandler != nil {
			r.Route("/supply", func(r chi.Router) {
				r.Get("/", cfg.SupplyHandler.List)
				r.Post("/", cfg.SupplyHandler.Create)
				r.Put("/", cfg.SupplyHandler.Update)
				r.Delete("/", cfg.SupplyHandler.Delete)
			})
		}

		if cfg.UserHandler != nil {
			r.Route("/user", func(r chi.Router) {
				r.Get("/", cfg.UserHandler.Get)
				r.Put("/", cfg.UserHandler.Update)
				r.Get("/data", cfg.UserHandler.GetData)
				r.Post("/update", cfg.UserHandler.UpdateWithSellers)
			})
		}
	})

	return r
}
