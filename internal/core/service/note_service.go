package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/notesaas/notes-api/internal/core/domain"
	"github.com/notesaas/notes-api/internal/core/ports"
)

// NoteService implements tenant-scoped note CRUD. Mutations of one tenant run
// under its tenant lock so that the quota count and the insert it guards are
// observed atomically.
type NoteService struct {
	repo   ports.NoteRepository
	plans  ports.PlanService
	locker ports.TenantLocker
	logger zerolog.Logger
	now    func() time.Time
}

func NewNoteService(repo ports.NoteRepository, plans ports.PlanService, locker ports.TenantLocker, logger zerolog.Logger) *NoteService {
	return &NoteService{
		repo:   repo,
		plans:  plans,
		locker: locker,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List returns the tenant's notes in insertion order.
func (s *NoteService) List(ctx context.Context, tenantID string) ([]*domain.Note, error) {
	return s.repo.ListByTenant(ctx, tenantID)
}

// Get returns a single note. A note of another tenant is reported as
// domain.ErrNoteNotFound.
func (s *NoteService) Get(ctx context.Context, tenantID, id string) (*domain.Note, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

// Count returns how many notes the tenant currently holds.
func (s *NoteService) Count(ctx context.Context, tenantID string) (int, error) {
	return s.repo.CountByTenant(ctx, tenantID)
}

// Create stores a new note after re-checking the tenant's quota.
func (s *NoteService) Create(ctx context.Context, input ports.CreateNoteInput) (*domain.Note, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}

	var created *domain.Note
	err := s.locker.WithTenantLock(ctx, input.TenantID, func(ctx context.Context) error {
		plan, err := s.plans.GetPlan(ctx, input.TenantID)
		if err != nil {
			return err
		}
		count, err := s.repo.CountByTenant(ctx, input.TenantID)
		if err != nil {
			return fmt.Errorf("count notes: %w", err)
		}
		if err := s.plans.CheckQuota(plan, count); err != nil {
			return err
		}

		now := s.now()
		note := &domain.Note{
			ID:        uuid.NewString(),
			Title:     input.Title,
			Content:   input.Content,
			TenantID:  input.TenantID,
			CreatedBy: input.AuthorID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.Create(ctx, note); err != nil {
			return fmt.Errorf("create note: %w", err)
		}
		created = note
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("note_id", created.ID).
		Str("tenant", created.TenantID).
		Str("author", created.CreatedBy).
		Msg("note created")

	return created, nil
}

// Update applies patch to a note owned by the requester's tenant. Only the
// author or an Admin may change it.
func (s *NoteService) Update(ctx context.Context, requester domain.Identity, id string, patch domain.NotePatch) (*domain.Note, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
	}

	var updated *domain.Note
	err := s.locker.WithTenantLock(ctx, requester.TenantID, func(ctx context.Context) error {
		note, err := s.repo.FindByID(ctx, requester.TenantID, id)
		if err != nil {
			return err
		}
		if !note.CanBeModifiedBy(requester) {
			return domain.ErrForbidden
		}

		if patch.Title != nil {
			note.Title = *patch.Title
		}
		if patch.Content != nil {
			note.Content = *patch.Content
		}
		note.UpdatedAt = s.now()

		if err := s.repo.Update(ctx, note); err != nil {
			return fmt.Errorf("update note: %w", err)
		}
		updated = note
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("note_id", id).Str("tenant", requester.TenantID).Str("by", requester.UserID).Msg("note updated")
	return updated, nil
}

// Delete permanently removes a note under the same ownership rule as Update.
func (s *NoteService) Delete(ctx context.Context, requester domain.Identity, id string) error {
	err := s.locker.WithTenantLock(ctx, requester.TenantID, func(ctx context.Context) error {
		note, err := s.repo.FindByID(ctx, requester.TenantID, id)
		if err != nil {
			return err
		}
		if !note.CanBeModifiedBy(requester) {
			return domain.ErrForbidden
		}
		return s.repo.Delete(ctx, requester.TenantID, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("note_id", id).Str("tenant", requester.TenantID).Str("by", requester.UserID).Msg("note deleted")
	return nil
}
