package handlers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/skynix/contact-service/internal/api/dto"
	"github.com/skynix/contact-service/internal/service"
	apperrors "github.com/skynix/contact-service/pkg/util/errorutil"
)

// SubmissionsHandler serves the public submit endpoint and the admin reads.
type SubmissionsHandler struct {
	service  *service.SubmissionService
	validate *validator.Validate
}

// NewSubmissionsHandler constructs handler.
func NewSubmissionsHandler(submissionService *service.SubmissionService, validate *validator.Validate) *SubmissionsHandler {
	if validate == nil {
		validate = NewValidator()
	}
	return &SubmissionsHandler{service: submissionService, validate: validate}
}

// Create POST /api/submissions.
func (h *SubmissionsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateRequest(c.UserContext(), h.validate, &req); err != nil {
		return err
	}

	created, err := h.service.Submit(c.UserContext(), service.SubmissionInput{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		CompanyName: req.CompanyName,
		Message:     req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.CreateSubmissionResponse{ID: created.ID}})
}

// List GET /api/admin/submissions.
func (h *SubmissionsHandler) List(c *fiber.Ctx) error {
	submissions, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		items = append(items, dto.NewSubmissionResponse(&submissions[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/admin/submissions/:id.
func (h *SubmissionsHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return apperrors.NewValidationError("invalid submission id", map[string]any{"id": c.Params("id")})
	}
	submission, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSubmissionResponse(submission)})
}
