package ports

import (
	"context"

	"github.com/notesaas/notes-api/internal/core/domain"
)

// NoteRepository persists notes. Every method is scoped by tenant: an id that
// exists under another tenant behaves exactly like a missing id.
type NoteRepository interface {
	// ListByTenant returns the tenant's notes in insertion order.
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.Note, error)
	CountByTenant(ctx context.Context, tenantID string) (int, error)
	FindByID(ctx context.Context, tenantID, id string) (*domain.Note, error)
	Create(ctx context.Context, n *domain.Note) error
	Update(ctx context.Context, n *domain.Note) error
	Delete(ctx context.Context, tenantID, id string) error
}

// TenantLocker serializes mutation sequences that belong to one tenant.
type TenantLocker interface {
	WithTenantLock(ctx context.Context, tenantID string, fn func(ctx context.Context) error) error
}
