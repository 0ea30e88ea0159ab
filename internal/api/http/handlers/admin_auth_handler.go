package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/skynix/contact-service/internal/api/dto"
	"github.com/skynix/contact-service/internal/service"
	apperrors "github.com/skynix/contact-service/pkg/util/errorutil"
)

// AdminAuthHandler issues admin tokens.
type AdminAuthHandler struct {
	service  *service.AuthService
	validate *validator.Validate
}

// NewAdminAuthHandler constructs handler.
func NewAdminAuthHandler(authService *service.AuthService, validate *validator.Validate) *AdminAuthHandler {
	if validate == nil {
		validate = NewValidator()
	}
	return &AdminAuthHandler{service: authService, validate: validate}
}

// Login POST /auth/admin/login.
func (h *AdminAuthHandler) Login(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateRequest(c.UserContext(), h.validate, &req); err != nil {
		return err
	}
	meta, token, err := h.service.LoginAdmin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TokenResponse{Token: token, ExpiresAt: meta.ExpiresAt}})
}
