package ports

import (
	"context"

	"github.com/notesaas/notes-api/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// TokenService issues and verifies signed identity assertions.
type TokenService interface {
	Issue(user *domain.User) (string, error)
	Verify(token string) (domain.Identity, error)
}
