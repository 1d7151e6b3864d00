package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/notesaas/notes-api/internal/api/metrics"
	"github.com/notesaas/notes-api/internal/core/domain"
	"github.com/notesaas/notes-api/internal/core/ports"
)

// NoteCounter reports how many notes a tenant holds.
type NoteCounter interface {
	Count(ctx context.Context, tenantID string) (int, error)
}

// EnforceQuota rejects note creation for tenants that reached their plan's
// limit. Must run after ResolveTenant. The note service repeats the check
// under the tenant lock; this stage only fails fast.
func EnforceQuota(plans ports.PlanService, notes NoteCounter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenant, ok := TenantFrom(c)
			if !ok {
				return domain.ErrInvalidTenant
			}

			count, err := notes.Count(c.Request().Context(), tenant.Slug)
			if err != nil {
				return fmt.Errorf("enforce quota: %w", err)
			}
			if err := plans.CheckQuota(tenant.Plan, count); err != nil {
				if errors.Is(err, domain.ErrQuotaExceeded) {
					metrics.AuthFailuresTotal.WithLabelValues("quota_exceeded").Inc()
				}
				return err
			}

			return next(c)
		}
	}
}
