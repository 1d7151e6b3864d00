package ports

import (
	"context"

	"github.com/notesaas/notes-api/internal/core/domain"
)

// CreateNoteInput carries the data for a new note. Tenant and author come from
// the authenticated identity, never from the request body.
type CreateNoteInput struct {
	TenantID string
	AuthorID string
	Title    string
	Content  string
}

// NoteService defines the tenant-scoped note use cases.
type NoteService interface {
	List(ctx context.Context, tenantID string) ([]*domain.Note, error)
	Get(ctx context.Context, tenantID, id string) (*domain.Note, error)
	Count(ctx context.Context, tenantID string) (int, error)
	Create(ctx context.Context, input CreateNoteInput) (*domain.Note, error)
	Update(ctx context.Context, requester domain.Identity, id string, patch domain.NotePatch) (*domain.Note, error)
	Delete(ctx context.Context, requester domain.Identity, id string) error
}

// PlanService owns tenant plan state and the quota rule derived from it.
type PlanService interface {
	GetPlan(ctx context.Context, slug string) (domain.Plan, error)
	SetPlan(ctx context.Context, slug string, plan domain.Plan) (*domain.Tenant, error)
	// CheckQuota reports ErrQuotaExceeded when a tenant on plan already holds
	// currentCount notes and may not add another.
	CheckQuota(plan domain.Plan, currentCount int) error
}
