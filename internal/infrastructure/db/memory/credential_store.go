package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/notesaas/notes-api/internal/core/domain"
)

// TenantRepository is the in-memory tenant directory.
type TenantRepository struct {
	mu      sync.RWMutex
	tenants map[string]*domain.Tenant
}

func NewTenantRepository(tenants ...domain.Tenant) *TenantRepository {
	r := &TenantRepository{tenants: make(map[string]*domain.Tenant, len(tenants))}
	for _, t := range tenants {
		t := t
		r.tenants[t.Slug] = &t
	}
	return r
}

func (r *TenantRepository) FindBySlug(_ context.Context, slug string) (*domain.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tenants[slug]
	if !ok {
		return nil, domain.ErrUnknownTenant
	}
	c := *t
	return &c, nil
}

func (r *TenantRepository) SetPlan(_ context.Context, slug string, plan domain.Plan) (*domain.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tenants[slug]
	if !ok {
		return nil, domain.ErrUnknownTenant
	}
	t.Plan = plan
	c := *t
	return &c, nil
}

// UserRepository is the in-memory user directory, indexed by id and email.
type UserRepository struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
}

// NewUserRepository indexes users. The set is fixed after construction, so
// lookups need no locking.
func NewUserRepository(users ...domain.User) *UserRepository {
	r := &UserRepository{
		byID:    make(map[string]*domain.User, len(users)),
		byEmail: make(map[string]*domain.User, len(users)),
	}
	for _, u := range users {
		u := u
		r.byID[u.ID] = &u
		r.byEmail[strings.ToLower(u.Email)] = &u
	}
	return r
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *u
	return &c, nil
}
