package domain

import "fmt"

// Role is the closed set of roles a user can hold inside its tenant.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleMember Role = "Member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// ParseRole converts a raw string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
	}
	return r, nil
}

// User models an account of the seeded credential store. Users belong to
// exactly one tenant and never change after seeding.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	TenantID     string `json:"tenantId"`
}

// Identity is the verified content of a bearer token.
type Identity struct {
	UserID   string
	Email    string
	Role     Role
	TenantID string
}

// IsAdmin reports whether the identity holds the Admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
