// Package domain defines core types, interfaces, and errors for the admin console.
package domain

import "time"

// Role is the fixed three-tier role hierarchy. SuperAdmin > Admin > User;
// there is no runtime extension.
type Role string

const (
	RoleSuperAdmin Role = "SuperAdmin"
	RoleAdmin      Role = "Admin"
	RoleUser       Role = "User"
)

// rank maps each role to its position in the hierarchy.
var rank = map[Role]int{
	RoleUser:       0,
	RoleAdmin:      1,
	RoleSuperAdmin: 2,
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	_, ok := rank[r]
	return ok
}

// AtLeast reports whether r sits at or above other in the hierarchy.
func (r Role) AtLeast(other Role) bool {
	return rank[r] >= rank[other]
}

// ParseRole validates a role string. Empty input defaults to User.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleUser, nil
	}
	r := Role(s)
	if !r.Valid() {
		return "", ErrValidation("role must be one of SuperAdmin, Admin, User")
	}
	return r, nil
}

// Principal represents an account in the console.
//
// Credential holds the stored representation of the secret (a legacy bcrypt
// hash or the iv:ciphertext encrypted form) and is never plaintext.
type Principal struct {
	ID         string    `json:"_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Credential string    `json:"-"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
