package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notesaas/notes-api/internal/api/metrics"
	"github.com/notesaas/notes-api/internal/core/domain"
	"github.com/notesaas/notes-api/internal/core/ports"
)

// TenantHandler exposes plan management for a tenant.
type TenantHandler struct {
	plans ports.PlanService
}

func NewTenantHandler(plans ports.PlanService) *TenantHandler {
	return &TenantHandler{plans: plans}
}

// Upgrade handles POST /tenants/:slug/upgrade.
//
// @Summary      Upgrade a tenant to Pro
// @Tags         tenants
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path      string  true  "Tenant slug"
// @Success      200   {object}  planChangeResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /tenants/{slug}/upgrade [post]
func (h *TenantHandler) Upgrade(c echo.Context) error {
	return h.changePlan(c, domain.PlanPro, "Upgraded to Pro")
}

// Downgrade handles POST /tenants/:slug/downgrade. Existing notes are kept;
// the Free limit applies to later creations only.
//
// @Summary      Downgrade a tenant to Free
// @Tags         tenants
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path      string  true  "Tenant slug"
// @Success      200   {object}  planChangeResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /tenants/{slug}/downgrade [post]
func (h *TenantHandler) Downgrade(c echo.Context) error {
	return h.changePlan(c, domain.PlanFree, "Downgraded to Free")
}

func (h *TenantHandler) changePlan(c echo.Context, plan domain.Plan, message string) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	slug := c.Param("slug")
	ctx := c.Request().Context()

	previous, err := h.plans.GetPlan(ctx, slug)
	if err != nil {
		return err
	}
	if slug != identity.TenantID {
		return domain.ErrForbidden
	}

	tenant, err := h.plans.SetPlan(ctx, slug, plan)
	if err != nil {
		return err
	}
	if previous != tenant.Plan {
		metrics.PlanChangesTotal.WithLabelValues(string(tenant.Plan)).Inc()
	}

	return c.JSON(http.StatusOK, planChangeResponse{
		Message: message,
		Plan:    tenant.Plan,
	})
}

// GetPlan handles GET /tenants/:slug/plan.
//
// @Summary      Read a tenant's plan
// @Tags         tenants
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path      string  true  "Tenant slug"
// @Success      200   {object}  planResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /tenants/{slug}/plan [get]
func (h *TenantHandler) GetPlan(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	slug := c.Param("slug")

	plan, err := h.plans.GetPlan(c.Request().Context(), slug)
	if err != nil {
		return err
	}
	if slug != identity.TenantID {
		return domain.ErrForbidden
	}

	return c.JSON(http.StatusOK, planResponse{Plan: plan})
}
