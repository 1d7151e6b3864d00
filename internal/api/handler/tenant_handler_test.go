package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/notesaas/notes-api/internal/core/domain"
)

type stubPlanService struct {
	plans map[string]domain.Plan
	sets  int
}

func (s *stubPlanService) GetPlan(ctx context.Context, slug string) (domain.Plan, error) {
	p, ok := s.plans[slug]
	if !ok {
		return "", domain.ErrUnknownTenant
	}
	return p, nil
}

func (s *stubPlanService) SetPlan(ctx context.Context, slug string, plan domain.Plan) (*domain.Tenant, error) {
	if _, ok := s.plans[slug]; !ok {
		return nil, domain.ErrUnknownTenant
	}
	s.sets++
	s.plans[slug] = plan
	return &domain.Tenant{Slug: slug, Plan: plan}, nil
}

func (s *stubPlanService) CheckQuota(plan domain.Plan, currentCount int) error {
	return nil
}

var admin = domain.Identity{UserID: "u1", Email: "admin@acme.test", Role: domain.RoleAdmin, TenantID: "acme"}

func newPlans() *stubPlanService {
	return &stubPlanService{plans: map[string]domain.Plan{"acme": domain.PlanFree, "globex": domain.PlanFree}}
}

func slugContext(e *echo.Echo, method, slug string, rec *httptest.ResponseRecorder) echo.Context {
	c := authed(e.NewContext(httptest.NewRequest(method, "/api/tenants/"+slug, nil), rec), admin)
	c.SetParamNames("slug")
	c.SetParamValues(slug)
	return c
}

func TestTenantHandler_Upgrade(t *testing.T) {
	e := newEcho()
	plans := newPlans()
	rec := httptest.NewRecorder()

	if err := NewTenantHandler(plans).Upgrade(slugContext(e, http.MethodPost, "acme", rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["plan"] != "Pro" || resp["message"] != "Upgraded to Pro" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if plans.plans["acme"] != domain.PlanPro {
		t.Fatalf("plan not changed")
	}
}

func TestTenantHandler_Downgrade(t *testing.T) {
	e := newEcho()
	plans := newPlans()
	plans.plans["acme"] = domain.PlanPro
	rec := httptest.NewRecorder()

	if err := NewTenantHandler(plans).Downgrade(slugContext(e, http.MethodPost, "acme", rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["plan"] != "Free" || resp["message"] != "Downgraded to Free" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestTenantHandler_Upgrade_OtherTenant(t *testing.T) {
	e := newEcho()
	plans := newPlans()

	err := NewTenantHandler(plans).Upgrade(slugContext(e, http.MethodPost, "globex", httptest.NewRecorder()))
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if plans.sets != 0 || plans.plans["globex"] != domain.PlanFree {
		t.Fatalf("other tenant's plan must not change")
	}
}

func TestTenantHandler_Upgrade_UnknownTenant(t *testing.T) {
	e := newEcho()
	err := NewTenantHandler(newPlans()).Upgrade(slugContext(e, http.MethodPost, "initech", httptest.NewRecorder()))
	if !errors.Is(err, domain.ErrUnknownTenant) {
		t.Fatalf("expected ErrUnknownTenant, got %v", err)
	}
}

func TestTenantHandler_GetPlan(t *testing.T) {
	e := newEcho()
	plans := newPlans()
	handler := NewTenantHandler(plans)

	rec := httptest.NewRecorder()
	if err := handler.GetPlan(slugContext(e, http.MethodGet, "acme", rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Body.String() != "{\"plan\":\"Free\"}\n" {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}

	if err := handler.GetPlan(slugContext(e, http.MethodGet, "globex", httptest.NewRecorder())); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := handler.GetPlan(slugContext(e, http.MethodGet, "initech", httptest.NewRecorder())); !errors.Is(err, domain.ErrUnknownTenant) {
		t.Fatalf("expected ErrUnknownTenant, got %v", err)
	}
}
