// Package validation checks contact form input before it is sent anywhere.
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Field names a contact form input.
type Field string

const (
	FieldName        Field = "name"
	FieldEmail       Field = "email"
	FieldPhoneNumber Field = "phoneNumber"
	FieldCompanyName Field = "companyName"
	FieldMessage     Field = "message"
)

// Fields lists every form input in display order.
var Fields = []Field{FieldName, FieldEmail, FieldPhoneNumber, FieldCompanyName, FieldMessage}

// Rule identifies which constraint a field violated.
type Rule string

const (
	RuleRequired      Rule = "required"
	RuleTooShort      Rule = "too short"
	RuleInvalidFormat Rule = "invalid format"
)

const (
	MinNameLength    = 2
	MinMessageLength = 10
)

// emailPart matches one run of characters that are neither whitespace (as
// isSpace defines it) nor '@'.
const emailPart = `[^\t\n\v\f\r \x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}@]+`

var emailPattern = regexp.MustCompile(`^` + emailPart + `@` + emailPart + `\.` + emailPart + `$`)

// isSpace reports the whitespace set browsers strip from form input. It
// differs from unicode.IsSpace by excluding U+0085 and including U+FEFF.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		'\u00A0', '\u1680', '\u2028', '\u2029', '\u202F', '\u205F', '\u3000', '\uFEFF':
		return true
	}
	return r >= '\u2000' && r <= '\u200A'
}

// Trim strips leading and trailing form whitespace.
func Trim(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// Values is the raw form input, as typed.
type Values struct {
	Name        string
	Email       string
	PhoneNumber string
	CompanyName string
	Message     string
}

// Get returns the value of a single field.
func (v Values) Get(f Field) string {
	switch f {
	case FieldName:
		return v.Name
	case FieldEmail:
		return v.Email
	case FieldPhoneNumber:
		return v.PhoneNumber
	case FieldCompanyName:
		return v.CompanyName
	case FieldMessage:
		return v.Message
	}
	return ""
}

// With returns a copy of v with one field replaced.
func (v Values) With(f Field, value string) Values {
	switch f {
	case FieldName:
		v.Name = value
	case FieldEmail:
		v.Email = value
	case FieldPhoneNumber:
		v.PhoneNumber = value
	case FieldCompanyName:
		v.CompanyName = value
	case FieldMessage:
		v.Message = value
	}
	return v
}

// Errors maps a failing field to the rule it broke. An empty map means valid.
type Errors map[Field]Rule

// Validate applies the form rules to trimmed values.
func Validate(v Values) Errors {
	errs := Errors{}

	name := Trim(v.Name)
	switch {
	case name == "":
		errs[FieldName] = RuleRequired
	case utf8.RuneCountInString(name) < MinNameLength:
		errs[FieldName] = RuleTooShort
	}

	email := Trim(v.Email)
	switch {
	case email == "":
		errs[FieldEmail] = RuleRequired
	case !emailPattern.MatchString(email):
		errs[FieldEmail] = RuleInvalidFormat
	}

	message := Trim(v.Message)
	switch {
	case message == "":
		errs[FieldMessage] = RuleRequired
	case utf8.RuneCountInString(message) < MinMessageLength:
		errs[FieldMessage] = RuleTooShort
	}

	return errs
}

// IsValidEmail reports whether s has the local@domain.tld shape.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(Trim(s))
}

// Valid reports whether no field failed.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Clone copies the map so callers can mutate it freely.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for f, r := range e {
		out[f] = r
	}
	return out
}

// Message renders the user-facing text for a field's violation, or "" when the field passed.
func (e Errors) Message(f Field) string {
	rule, ok := e[f]
	if !ok {
		return ""
	}
	return Describe(f, rule)
}

// Err returns a *ValidationError when any field failed.
func (e Errors) Err() error {
	if e.Valid() {
		return nil
	}
	return &ValidationError{Fields: e.Clone()}
}

// Describe renders the message shown next to a field.
func Describe(f Field, r Rule) string {
	switch {
	case f == FieldName && r == RuleRequired:
		return "Name is required"
	case f == FieldName && r == RuleTooShort:
		return fmt.Sprintf("Name must be at least %d characters", MinNameLength)
	case f == FieldEmail && r == RuleRequired:
		return "Email is required"
	case f == FieldEmail && r == RuleInvalidFormat:
		return "Please enter a valid email address"
	case f == FieldMessage && r == RuleRequired:
		return "Message is required"
	case f == FieldMessage && r == RuleTooShort:
		return fmt.Sprintf("Message must be at least %d characters", MinMessageLength)
	}
	return fmt.Sprintf("%s: %s", f, r)
}

// ValidationError carries field-scoped failures. It never crosses the network boundary on the client.
type ValidationError struct {
	Fields Errors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f, r := range e.Fields {
		names = append(names, fmt.Sprintf("%s %s", f, r))
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}
