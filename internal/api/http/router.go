package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/service-requests/internal/api/http/handlers"
	"github.com/spec-kit/service-requests/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Requests       *handlers.RequestsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        http.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/logout", cfg.Users.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Users.Me)

	requests := app.Group("/requests", cfg.AuthMiddleware.Handle)
	requests.Post("/", cfg.Requests.Create)
	requests.Get("/", cfg.Requests.List)
}
