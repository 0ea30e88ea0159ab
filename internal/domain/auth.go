package domain

import "time"

// SubjectType identifies who a token was issued to.
type SubjectType string

const (
	SubjectTypeAdmin SubjectType = "ADMIN"
)

// Scope grants access to a group of admin endpoints.
type Scope string

const (
	ScopeSubmissionsRead Scope = "submissions:read"
)

// Token represents issued authentication token metadata.
type Token struct {
	SubjectID string
	Subject   SubjectType
	Scopes    []Scope
	ExpiresAt time.Time
	IssuedAt  time.Time
}
