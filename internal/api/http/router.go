package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/devkit/toolbox-service/internal/api/http/handlers"
	"github.com/devkit/toolbox-service/internal/auth"
)

// PublicPaths lists routes reachable without a session. Entries ending in
// "/*" match by prefix.
var PublicPaths = []string{
	"/",
	"/health/*",
	"/auth/signup",
	"/auth/signin",
	"/auth/signout",
}

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler
	Todos  *handlers.TodosHandler
	News   *handlers.NewsHandler
	Guard  *auth.RouteGuard
}

// RegisterRoutes wires HTTP routes. The guard runs first on every
// request and consults its allow-list itself.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Guard.Handle)

	app.Get("/", cfg.Health.Live)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/signin", cfg.Auth.SignIn)
	authGroup.Post("/signout", cfg.Auth.SignOut)

	api := app.Group("/api")
	api.Get("/me", cfg.Auth.Me)
	api.Get("/news", cfg.News.Feed)
	api.Get("/todos", cfg.Todos.List)
	api.Post("/todos", cfg.Todos.Create)
	api.Patch("/todos/:id", cfg.Todos.Update)
	api.Delete("/todos/:id", cfg.Todos.Delete)
}
