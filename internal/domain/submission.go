package domain

import "time"

// ContactSubmission is one contact-form record accepted by the backend.
// Records are immutable once created.
type ContactSubmission struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Message     string           `json:"message"`
	PhoneNumber Optional[string] `json:"phoneNumber"`
	CompanyName Optional[string] `json:"companyName"`
	Timestamp   time.Time        `json:"timestamp"`
}
