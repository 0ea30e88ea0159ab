package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skynix/contact-service/internal/api/http/handlers"
	"github.com/skynix/contact-service/internal/auth"
	"github.com/skynix/contact-service/internal/config"
	"github.com/skynix/contact-service/internal/domain"
	"github.com/skynix/contact-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Submissions    *handlers.SubmissionsHandler
	AdminAuth      *handlers.AdminAuthHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
	RateLimit      config.RateLimitConfig
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/admin/login", cfg.AdminAuth.Login)

	api := app.Group("/api")
	submit := []fiber.Handler{}
	if cfg.RateLimit.MaxSubmissions > 0 {
		submit = append(submit, submissionRateLimiter(cfg.RateLimit))
	}
	submit = append(submit, cfg.Submissions.Create)
	api.Post("/submissions", submit...)

	admin := api.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireScope(domain.ScopeSubmissionsRead))
	admin.Get("/submissions", cfg.Submissions.List)
	admin.Get("/submissions/:id", cfg.Submissions.Get)
}
