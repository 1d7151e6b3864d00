package memory

import (
	"context"
	"sync"

	"github.com/notesaas/notes-api/internal/core/domain"
)

// NoteRepository keeps notes in process memory. Insertion order is preserved
// per tenant; deleted notes are removed for good.
type NoteRepository struct {
	mu    sync.RWMutex
	notes []*domain.Note
}

func NewNoteRepository() *NoteRepository {
	return &NoteRepository{}
}

func cloneNote(n *domain.Note) *domain.Note {
	c := *n
	return &c
}

func (r *NoteRepository) ListByTenant(_ context.Context, tenantID string) ([]*domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Note, 0)
	for _, n := range r.notes {
		if n.TenantID == tenantID {
			out = append(out, cloneNote(n))
		}
	}
	return out, nil
}

func (r *NoteRepository) CountByTenant(_ context.Context, tenantID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, n := range r.notes {
		if n.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

func (r *NoteRepository) FindByID(_ context.Context, tenantID, id string) (*domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(tenantID, id); i >= 0 {
		return cloneNote(r.notes[i]), nil
	}
	return nil, domain.ErrNoteNotFound
}

func (r *NoteRepository) Create(_ context.Context, n *domain.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notes = append(r.notes, cloneNote(n))
	return nil
}

func (r *NoteRepository) Update(_ context.Context, n *domain.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(n.TenantID, n.ID)
	if i < 0 {
		return domain.ErrNoteNotFound
	}
	r.notes[i] = cloneNote(n)
	return nil
}

func (r *NoteRepository) Delete(_ context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(tenantID, id)
	if i < 0 {
		return domain.ErrNoteNotFound
	}
	r.notes = append(r.notes[:i], r.notes[i+1:]...)
	return nil
}

// indexOf must be called with r.mu held.
func (r *NoteRepository) indexOf(tenantID, id string) int {
	for i, n := range r.notes {
		if n.ID == id && n.TenantID == tenantID {
			return i
		}
	}
	return -1
}
