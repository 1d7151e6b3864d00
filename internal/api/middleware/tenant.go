package middleware

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/notesaas/notes-api/internal/api/metrics"
	"github.com/notesaas/notes-api/internal/core/domain"
	"github.com/notesaas/notes-api/internal/core/ports"
)

// ResolveTenant loads the caller's tenant and attaches it to the context.
// Must run after Authenticate.
func ResolveTenant(tenants ports.TenantRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrUnauthenticated
			}

			tenant, err := tenants.FindBySlug(c.Request().Context(), identity.TenantID)
			if err != nil {
				if errors.Is(err, domain.ErrUnknownTenant) {
					metrics.AuthFailuresTotal.WithLabelValues("invalid_tenant").Inc()
					return domain.ErrInvalidTenant
				}
				return fmt.Errorf("resolve tenant: %w", err)
			}

			SetTenant(c, tenant)
			return next(c)
		}
	}
}
