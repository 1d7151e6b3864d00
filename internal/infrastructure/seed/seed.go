// Package seed holds the fixed demo tenants and accounts the service boots with.
package seed

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/notesaas/notes-api/internal/core/domain"
)

// DemoPassword is the password of every seeded account. It is only ever kept
// as a bcrypt hash.
const DemoPassword = "password"

type account struct {
	email    string
	role     domain.Role
	tenantID string
}

var accounts = []account{
	{email: "admin@acme.test", role: domain.RoleAdmin, tenantID: "acme"},
	{email: "user@acme.test", role: domain.RoleMember, tenantID: "acme"},
	{email: "admin@globex.test", role: domain.RoleAdmin, tenantID: "globex"},
	{email: "user@globex.test", role: domain.RoleMember, tenantID: "globex"},
}

// Tenants returns the seeded tenants, all starting on the Free plan.
func Tenants() []domain.Tenant {
	return []domain.Tenant{
		{Slug: "acme", Name: "Acme", Plan: domain.PlanFree},
		{Slug: "globex", Name: "Globex", Plan: domain.PlanFree},
	}
}

// Users returns the seeded users with fresh ids and passwords hashed at the
// given bcrypt cost. Tests pass bcrypt.MinCost.
func Users(cost int) ([]domain.User, error) {
	users := make([]domain.User, 0, len(accounts))
	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", a.email, err)
		}
		users = append(users, domain.User{
			ID:           uuid.NewString(),
			Email:        a.email,
			PasswordHash: string(hash),
			Role:         a.role,
			TenantID:     a.tenantID,
		})
	}
	return users, nil
}
