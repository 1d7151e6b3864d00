package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/notesaas/notes-api/internal/core/domain"
	"github.com/notesaas/notes-api/internal/core/ports"
)

// PlanService manages tenant plans and owns the quota rule.
type PlanService struct {
	tenants ports.TenantRepository
	log     zerolog.Logger
}

func NewPlanService(tenants ports.TenantRepository, log zerolog.Logger) *PlanService {
	return &PlanService{tenants: tenants, log: log}
}

// GetPlan returns the current plan of the tenant identified by slug.
func (s *PlanService) GetPlan(ctx context.Context, slug string) (domain.Plan, error) {
	t, err := s.tenants.FindBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	return t.Plan, nil
}

// SetPlan moves the tenant to plan. Setting the current plan again succeeds
// without touching the store.
func (s *PlanService) SetPlan(ctx context.Context, slug string, plan domain.Plan) (*domain.Tenant, error) {
	if !plan.Valid() {
		return nil, fmt.Errorf("%w: unknown plan %q", domain.ErrValidation, plan)
	}

	current, err := s.tenants.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if current.Plan == plan {
		return current, nil
	}

	updated, err := s.tenants.SetPlan(ctx, slug, plan)
	if err != nil {
		return nil, fmt.Errorf("set plan: %w", err)
	}

	s.log.Info().
		Str("tenant", slug).
		Str("from", string(current.Plan)).
		Str("to", string(plan)).
		Msg("tenant plan changed")

	return updated, nil
}

// CheckQuota fails with domain.ErrQuotaExceeded when the plan has a note limit
// and currentCount already reached it.
func (s *PlanService) CheckQuota(plan domain.Plan, currentCount int) error {
	limit, limited := plan.NoteLimit()
	if limited && currentCount >= limit {
		return domain.ErrQuotaExceeded
	}
	return nil
}
