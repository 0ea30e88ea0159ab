package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/skynix/contact-service/internal/domain"
	apperrors "github.com/skynix/contact-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal is the authenticated admin behind a request.
type Principal struct {
	SubjectID   string
	SubjectType domain.SubjectType
	Scopes      []domain.Scope
}

// AuthMiddleware validates bearer tokens. Tokens are self-contained, so no
// lookup happens per request.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle rejects the request with UNAUTHORIZED unless it carries a valid
// admin token, then stores the Principal for later handlers.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	raw, err := bearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return err
	}
	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	if claims.Subject != domain.SubjectTypeAdmin {
		return apperrors.NewUnauthorized("unknown subject")
	}

	c.Locals(principalKey, &Principal{
		SubjectID:   claims.RegisteredClaims.Subject,
		SubjectType: claims.Subject,
		Scopes:      claims.Scopes,
	})
	return c.Next()
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", apperrors.NewUnauthorized("missing authorization header")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", apperrors.NewUnauthorized("invalid authorization header")
	}
	return strings.TrimSpace(token), nil
}

// PrincipalFromContext retrieves the authenticated admin, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(principalKey).(*Principal)
	return principal, ok && principal != nil
}
