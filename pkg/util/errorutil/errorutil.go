// Package errorutil defines the error envelope returned by the contact API
// and maps lower-level errors onto it.
package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/skynix/contact-service/internal/repository"
)

// Error codes carried in the response envelope.
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInternal         = "INTERNAL_ERROR"
)

var statusByCode = map[string]int{
	CodeBadRequest:       http.StatusBadRequest,
	CodeValidationFailed: http.StatusBadRequest,
	CodeNotFound:         http.StatusNotFound,
	CodeUnauthorized:     http.StatusUnauthorized,
	CodeForbidden:        http.StatusForbidden,
	CodeRateLimited:      http.StatusTooManyRequests,
	CodeInternal:         http.StatusInternalServerError,
}

// notFoundCauses are storage sentinels that surface as NOT_FOUND when they
// reach the handler unmapped.
var notFoundCauses = []error{repository.ErrNotFound, pgx.ErrNoRows}

// DomainError is what handlers render as {"error": {code, message, details}}.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError builds an error with an explicit status, for codes outside the table.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func newCoded(code, message string, details map[string]any) *DomainError {
	return NewDomainError(code, message, statusByCode[code], details)
}

// NewValidationError reports per-field rule failures in details.
func NewValidationError(message string, details map[string]any) error {
	return newCoded(CodeValidationFailed, message, details)
}

// NewNotFound names the missing resource, e.g. "submission not found".
func NewNotFound(resource string, details map[string]any) error {
	return newCoded(CodeNotFound, resource+" not found", details)
}

func NewUnauthorized(message string) error { return newCoded(CodeUnauthorized, message, nil) }

func NewForbidden(message string) error { return newCoded(CodeForbidden, message, nil) }

func NewRateLimited(message string) error { return newCoded(CodeRateLimited, message, nil) }

// NewInternalError hides err from the client; it stays reachable through Unwrap for logging.
func NewInternalError(err error) error {
	de := newCoded(CodeInternal, "internal server error", nil)
	de.Err = err
	return de
}

// ToDomainError returns the DomainError in err's chain, mapping known
// not-found sentinels and treating anything else as internal.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	for _, cause := range notFoundCauses {
		if errors.Is(err, cause) {
			nf := newCoded(CodeNotFound, "resource not found", nil)
			nf.Err = err
			return nf
		}
	}
	return NewInternalError(err).(*DomainError)
}
