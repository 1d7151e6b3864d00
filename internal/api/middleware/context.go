package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/notesaas/notes-api/internal/core/domain"
)

const (
	identityKey = "identity"
	tenantKey   = "tenant"
)

// IdentityFrom returns the identity attached by Authenticate.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}

// TenantFrom returns the tenant attached by ResolveTenant.
func TenantFrom(c echo.Context) (*domain.Tenant, bool) {
	t, ok := c.Get(tenantKey).(*domain.Tenant)
	return t, ok && t != nil
}

// SetIdentity attaches id to the request context.
func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)
}

// SetTenant attaches t to the request context.
func SetTenant(c echo.Context, t *domain.Tenant) {
	c.Set(tenantKey, t)
}
