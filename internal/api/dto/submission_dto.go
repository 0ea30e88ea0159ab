package dto

import (
	"time"

	"github.com/skynix/contact-service/internal/domain"
)

// CreateSubmissionRequest payload. Content rules are enforced by the service;
// the tags only bound sizes.
type CreateSubmissionRequest struct {
	Name        string                  `json:"name" validate:"max=200"`
	Email       string                  `json:"email" validate:"max=320"`
	PhoneNumber domain.Optional[string] `json:"phoneNumber" validate:"omitempty,max=50"`
	CompanyName domain.Optional[string] `json:"companyName" validate:"omitempty,max=200"`
	Message     string                  `json:"message" validate:"max=5000"`
}

// CreateSubmissionResponse returns the assigned id.
type CreateSubmissionResponse struct {
	ID int64 `json:"id"`
}

// SubmissionResponse is one stored submission.
type SubmissionResponse struct {
	ID          int64                   `json:"id"`
	Name        string                  `json:"name"`
	Email       string                  `json:"email"`
	Message     string                  `json:"message"`
	PhoneNumber domain.Optional[string] `json:"phoneNumber"`
	CompanyName domain.Optional[string] `json:"companyName"`
	Timestamp   time.Time               `json:"timestamp"`
}

// NewSubmissionResponse maps the domain record.
func NewSubmissionResponse(s *domain.ContactSubmission) SubmissionResponse {
	return SubmissionResponse{
		ID:          s.ID,
		Name:        s.Name,
		Email:       s.Email,
		Message:     s.Message,
		PhoneNumber: s.PhoneNumber,
		CompanyName: s.CompanyName,
		Timestamp:   s.Timestamp,
	}
}
