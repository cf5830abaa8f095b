package auth

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
)

// FieldError describes a single failed field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is the tagged result of form validation: either Valid
// is true, or Errors lists every failed field.
type ValidationResult struct {
	Valid  bool
	Errors []FieldError
}

// ValidationError wraps field errors so callers can errors.As them out
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "auth: validation failed"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "auth: validation failed: " + strings.Join(parts, "; ")
}

// ValidateRegistration checks the registration fields locally. Rules match
// the sign-up form: well-formed email, password of at least 6 characters
// containing a lowercase letter, an uppercase letter, and a digit.
func ValidateRegistration(username, email, password string) ValidationResult {
	var errs []FieldError

	if strings.TrimSpace(username) == "" {
		errs = append(errs, FieldError{Field: "username", Message: "Username is required"})
	}

	if _, err := mail.ParseAddress(email); err != nil || strings.TrimSpace(email) != email {
		errs = append(errs, FieldError{Field: "email", Message: "Invalid email"})
	}

	errs = append(errs, validatePassword(password)...)

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func validatePassword(password string) []FieldError {
	var errs []FieldError

	if len(password) < 6 {
		errs = append(errs, FieldError{Field: "password", Message: "Password must be at least 6 characters long"})
	}

	var hasLower, hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasLower {
		errs = append(errs, FieldError{Field: "password", Message: "Password must contain at least one lowercase letter"})
	}
	if !hasUpper {
		errs = append(errs, FieldError{Field: "password", Message: "Password must contain at least one uppercase letter"})
	}
	if !hasDigit {
		errs = append(errs, FieldError{Field: "password", Message: "Password must contain at least one number"})
	}

	return errs
}
