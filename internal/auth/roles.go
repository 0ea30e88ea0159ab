package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skynix/contact-service/internal/domain"
	apperrors "github.com/skynix/contact-service/pkg/util/errorutil"
)

// RequireScope ensures the principal's token grants every listed scope.
func RequireScope(required ...domain.Scope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		granted := make(map[domain.Scope]struct{}, len(principal.Scopes))
		for _, s := range principal.Scopes {
			granted[s] = struct{}{}
		}
		for _, s := range required {
			if _, exists := granted[s]; !exists {
				return apperrors.NewForbidden("insufficient scope")
			}
		}
		return c.Next()
	}
}
