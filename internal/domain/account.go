package domain

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// NormalizeEmail trims surrounding whitespace and lowercases an email
// address. Every store round-trip uses the normalized form so uniqueness is
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePassword enforces the password complexity policy: at least 8
// characters with one uppercase letter, one lowercase letter, one digit, and
// one special character.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrValidation("password must be at least 8 characters long")
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	switch {
	case !upper:
		return ErrValidation("password must contain at least one uppercase letter")
	case !lower:
		return ErrValidation("password must contain at least one lowercase letter")
	case !digit:
		return ErrValidation("password must contain at least one number")
	case !symbol:
		return ErrValidation("password must contain at least one special character")
	}
	return nil
}

// RegisterRequest holds parameters for creating a new account. Role is the
// requested role; whether it takes effect depends on the requesting actor.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
}

// Validate checks the request shape and normalizes the email and requested
// role in place.
func (r *RegisterRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if len(r.Name) < 3 {
		return ErrValidation("name must be at least 3 characters long")
	}
	r.Email = NormalizeEmail(r.Email)
	if !emailPattern.MatchString(r.Email) {
		return ErrValidation("invalid email format")
	}
	if err := ValidatePassword(r.Password); err != nil {
		return err
	}
	role, err := ParseRole(string(r.Role))
	if err != nil {
		return err
	}
	r.Role = role
	return nil
}

// UpdateRequest carries a partial account update. Nil fields are left
// untouched, never cleared.
type UpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *Role   `json:"role,omitempty"`
}

// Validate checks every field that is present and normalizes it in place.
func (r *UpdateRequest) Validate() error {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		if len(trimmed) < 3 {
			return ErrValidation("name must be at least 3 characters long")
		}
		*r.Name = trimmed
	}
	if r.Email != nil {
		normalized := NormalizeEmail(*r.Email)
		if !emailPattern.MatchString(normalized) {
			return ErrValidation("invalid email format")
		}
		*r.Email = normalized
	}
	if r.Password != nil {
		if err := ValidatePassword(*r.Password); err != nil {
			return err
		}
	}
	if r.Role != nil && !r.Role.Valid() {
		return ErrValidation("role must be one of SuperAdmin, Admin, User")
	}
	return nil
}

// AuthResult pairs a freshly issued token with the principal it identifies.
type AuthResult struct {
	Token     string     `json:"token"`
	Principal *Principal `json:"user"`
}
