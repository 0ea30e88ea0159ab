package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/skynix/contact-service/internal/api/http/handlers"
	"github.com/skynix/contact-service/internal/auth"
	"github.com/skynix/contact-service/internal/config"
	"github.com/skynix/contact-service/internal/observability"
	"github.com/skynix/contact-service/internal/service"
)

// ServerDependencies bundles everything the HTTP surface needs.
type ServerDependencies struct {
	Config      *config.Config
	Logger      *zap.Logger
	Metrics     *observability.Metrics
	Submissions *service.SubmissionService
	Auth        *service.AuthService
	Tokens      *auth.TokenManager
	Health      map[string]handlers.Pinger
}

// NewServer builds the fiber app with middlewares and routes registered.
func NewServer(deps ServerDependencies) *fiber.App {
	cfg := deps.Config
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, deps.Logger, deps.Metrics, cfg.App.RequestTimeout())

	validate := handlers.NewValidator()
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps.Health),
		Submissions:    handlers.NewSubmissionsHandler(deps.Submissions, validate),
		AdminAuth:      handlers.NewAdminAuthHandler(deps.Auth, validate),
		AuthMiddleware: auth.NewAuthMiddleware(deps.Tokens),
		Metrics:        deps.Metrics,
		RateLimit:      cfg.RateLimit,
	})
	return app
}
