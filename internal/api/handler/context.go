package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notesaas/notes-api/internal/api/middleware"
	"github.com/notesaas/notes-api/internal/core/domain"
)

// ctxIdentity returns the identity injected by Authenticate. Its absence
// means the route was wired without the middleware; fail closed.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok || id.UserID == "" || id.TenantID == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return id, nil
}

// ctxTenant returns the tenant resolved by ResolveTenant.
func ctxTenant(c echo.Context) (*domain.Tenant, error) {
	t, ok := middleware.TenantFrom(c)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}
	return t, nil
}

// bindAndValidate decodes the JSON body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	return c.Validate(req)
}
