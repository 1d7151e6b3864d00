package ports

import (
	"context"

	"github.com/notesaas/notes-api/internal/core/domain"
)

// UserRepository is the read side of the seeded credential store.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// TenantRepository is the tenant directory. Tenants are created at seed time
// only; SetPlan is the single mutation.
type TenantRepository interface {
	FindBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
	SetPlan(ctx context.Context, slug string, plan domain.Plan) (*domain.Tenant, error)
}
