package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSubmissionCreated EventType = "submission_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	SubmissionID int64       `json:"submission_id"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload"`
}

// NewEvent stamps a fresh id and timestamp.
func NewEvent(eventType EventType, submissionID int64, payload interface{}) Event {
	return Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		SubmissionID: submissionID,
		Timestamp:    time.Now().UTC(),
		Payload:      payload,
	}
}

// SubmissionCreatedPayload carries what notification channels need. The
// message body is truncated to a preview.
type SubmissionCreatedPayload struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	CompanyName    *string `json:"company_name,omitempty"`
	MessagePreview string  `json:"message_preview"`
}
