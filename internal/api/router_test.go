package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/notesaas/notes-api/docs"
	"github.com/notesaas/notes-api/internal/core/domain"
	"github.com/notesaas/notes-api/internal/core/service"
	"github.com/notesaas/notes-api/internal/infrastructure/db/memory"
	"github.com/notesaas/notes-api/internal/infrastructure/queue"
	"github.com/notesaas/notes-api/internal/infrastructure/seed"
	"github.com/notesaas/notes-api/internal/pkg/config"
)

type testServer struct {
	t *testing.T
	e *echo.Echo
}

func newTestServer(t *testing.T, httpCfg config.HTTPConfig) *testServer {
	t.Helper()
	log := zerolog.Nop()

	users, err := seed.Users(bcrypt.MinCost)
	require.NoError(t, err)

	tenants := memory.NewTenantRepository(seed.Tenants()...)
	notes := memory.NewNoteRepository()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	serializer := queue.NewSerializer(4, log)
	serializer.Start(ctx)

	tokens := service.NewTokenService("test-secret", time.Hour)
	plans := service.NewPlanService(tenants, log)

	e := NewRouter(Deps{
		HTTP:    httpCfg,
		Log:     log,
		Tokens:  tokens,
		Auth:    service.NewAuthService(memory.NewUserRepository(users...), tokens, log),
		Notes:   service.NewNoteService(notes, plans, serializer, log),
		Plans:   plans,
		Tenants: tenants,
		Metrics: prometheus.NewRegistry(),
	})
	return &testServer{t: t, e: e}
}

func defaultHTTP() config.HTTPConfig {
	return config.HTTPConfig{
		BasePath:       "/api",
		AllowedOrigins: []string{"*"},
		LoginRate:      1000,
		LoginBurst:     1000,
	}
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(email string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/login", "", `{"email":"`+email+`","password":"password"}`)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]string
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(s.t, resp["token"])
	return resp["token"]
}

func (s *testServer) createNote(token, title string) *httptest.ResponseRecorder {
	return s.do(http.MethodPost, "/api/notes", token, `{"title":"`+title+`","content":"body"}`)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRouter_FreeQuotaThenUpgrade(t *testing.T) {
	s := newTestServer(t, defaultHTTP())
	admin := s.login("admin@acme.test")

	for _, title := range []string{"one", "two", "three"} {
		rec := s.createNote(admin, title)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := s.createNote(admin, "four")
	require.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Equal(t, "Upgrade to Pro to add more notes", decode[map[string]string](t, rec)["error"])

	rec = s.do(http.MethodPost, "/api/tenants/acme/upgrade", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"message": "Upgraded to Pro", "plan": "Pro"}, decode[map[string]string](t, rec))

	rec = s.createNote(admin, "four")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/api/notes", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 4)
}

func TestRouter_DowngradeKeepsNotesButBlocksCreation(t *testing.T) {
	s := newTestServer(t, defaultHTTP())
	admin := s.login("admin@globex.test")

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/tenants/globex/upgrade", admin, "").Code)
	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusCreated, s.createNote(admin, "n").Code)
	}

	rec := s.do(http.MethodPost, "/api/tenants/globex/downgrade", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Free", decode[map[string]string](t, rec)["plan"])

	assert.Equal(t, http.StatusPaymentRequired, s.createNote(admin, "n").Code)
	assert.Len(t, decode[[]map[string]any](t, s.do(http.MethodGet, "/api/notes", admin, "")), 5)

	rec = s.do(http.MethodGet, "/api/tenants/globex/plan", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Free", decode[map[string]string](t, rec)["plan"])
}

func TestRouter_TenantIsolation(t *testing.T) {
	s := newTestServer(t, defaultHTTP())
	acme := s.login("admin@acme.test")
	globex := s.login("admin@globex.test")

	rec := s.createNote(acme, "secret")
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[map[string]any](t, rec)["id"].(string)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/notes/"+id, globex, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPut, "/api/notes/"+id, globex, `{"title":"pwned"}`).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/notes/"+id, globex, "").Code)
	assert.Empty(t, decode[[]map[string]any](t, s.do(http.MethodGet, "/api/notes", globex, "")))

	rec = s.do(http.MethodGet, "/api/notes/"+id, acme, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "secret", decode[map[string]any](t, rec)["title"])
}

func TestRouter_RoleAndTenantGates(t *testing.T) {
	s := newTestServer(t, defaultHTTP())
	member := s.login("user@acme.test")
	admin := s.login("admin@acme.test")

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/tenants/acme/upgrade", member, "").Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/tenants/globex/upgrade", admin, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/api/tenants/initech/upgrade", admin, "").Code)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/tenants/acme/plan", member, "").Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/tenants/globex/plan", member, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/tenants/initech/plan", member, "").Code)

	rec := s.do(http.MethodGet, "/api/tenants/globex/plan", admin, "")
	assert.Equal(t, "forbidden", decode[map[string]string](t, rec)["error"])
}

func TestRouter_Ownership(t *testing.T) {
	s := newTestServer(t, defaultHTTP())
	admin := s.login("admin@acme.test")
	member := s.login("user@acme.test")

	rec := s.createNote(admin, "admin note")
	require.Equal(t, http.StatusCreated, rec.Code)
	adminNote := decode[map[string]any](t, rec)["id"].(string)

	rec = s.createNote(member, "member note")
	require.Equal(t, http.StatusCreated, rec.Code)
	memberNote := decode[map[string]any](t, rec)["id"].(string)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPut, "/api/notes/"+adminNote, member, `{"title":"mine now"}`).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, "/api/notes/"+adminNote, member, "").Code)

	rec = s.do(http.MethodPut, "/api/notes/"+memberNote, member, `{"content":"edited"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "member note", body["title"])
	assert.Equal(t, "edited", body["content"])

	rec = s.do(http.MethodDelete, "/api/notes/"+memberNote, admin, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/notes/"+memberNote, member, "").Code)
}

func TestRouter_Authentication(t *testing.T) {
	s := newTestServer(t, defaultHTTP())

	rec := s.do(http.MethodGet, "/api/notes", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "missing token", decode[map[string]string](t, rec)["error"])

	rec = s.do(http.MethodGet, "/api/notes", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid token", decode[map[string]string](t, rec)["error"])

	rec = s.do(http.MethodPost, "/api/login", "", `{"email":"admin@acme.test","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", decode[map[string]string](t, rec)["error"])

	rec = s.do(http.MethodPost, "/api/login", "", `{"email":"ghost@acme.test","password":"password"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", decode[map[string]string](t, rec)["error"])

	rec = s.do(http.MethodPost, "/api/login", "", `{"email":"admin@acme.test"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// seedlessUser holds a validly signed identity whose tenant was never seeded.
var seedlessUser = domain.User{ID: "u-x", Email: "admin@initech.test", Role: domain.RoleAdmin, TenantID: "initech"}

func TestRouter_TokenForUnknownTenant(t *testing.T) {
	s := newTestServer(t, defaultHTTP())
	tokens := service.NewTokenService("test-secret", time.Hour)
	token, err := tokens.Issue(&seedlessUser)
	require.NoError(t, err)

	rec := s.do(http.MethodGet, "/api/notes", token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "invalid tenant", decode[map[string]string](t, rec)["error"])
}

func TestRouter_ConcurrentCreatesRespectQuota(t *testing.T) {
	s := newTestServer(t, defaultHTTP())
	admin := s.login("admin@acme.test")

	const attempts = 20
	codes := make(chan int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes <- s.createNote(admin, "race").Code
		}()
	}
	wg.Wait()
	close(codes)

	created := 0
	for code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusPaymentRequired:
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	assert.Equal(t, 3, created)
}

func TestRouter_LoginRateLimited(t *testing.T) {
	cfg := defaultHTTP()
	cfg.LoginRate = 0.001
	cfg.LoginBurst = 1
	s := newTestServer(t, cfg)

	s.login("admin@acme.test")
	rec := s.do(http.MethodPost, "/api/login", "", `{"email":"admin@acme.test","password":"password"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRouter_IndexAndHealth(t *testing.T) {
	s := newTestServer(t, defaultHTTP())

	rec := s.do(http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	index := decode[indexResponse](t, rec)
	assert.Equal(t, "Notes Backend API is running", index.Message)
	assert.Contains(t, index.Endpoints, "POST /api/login")
	assert.Contains(t, index.Endpoints, "GET /api/tenants/:slug/plan")
	assert.Contains(t, index.Endpoints, "DELETE /api/notes/:id")

	rec = s.do(http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodGet, "/api/health/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "notes_http_requests_total")
}

func TestRouter_RequestMetricsUseRouteAndFinalStatus(t *testing.T) {
	s := newTestServer(t, defaultHTTP())
	admin := s.login("admin@acme.test")

	for _, title := range []string{"one", "two", "three", "four"} {
		s.createNote(admin, title)
	}
	s.do(http.MethodGet, "/api/notes/"+"missing-id", admin, "")

	rec := s.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `notes_http_requests_total{code="201",host="example.com",method="POST",url="/api/notes"} 3`)
	assert.Contains(t, body, `notes_http_requests_total{code="402",host="example.com",method="POST",url="/api/notes"} 1`)
	assert.Contains(t, body, `notes_http_requests_total{code="404",host="example.com",method="GET",url="/api/notes/:id"} 1`)
	assert.Contains(t, body, "notes_http_request_duration_seconds_bucket")
	assert.Contains(t, body, "notes_notes_created_total")
}

func TestRouter_SwaggerDocServed(t *testing.T) {
	s := newTestServer(t, defaultHTTP())

	rec := s.do(http.MethodGet, "/swagger/doc.json", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"/notes"`)
	assert.Contains(t, rec.Body.String(), `"/tenants/{slug}/upgrade"`)
}

func TestRouter_TitleStoredAsSent(t *testing.T) {
	s := newTestServer(t, defaultHTTP())
	admin := s.login("admin@acme.test")

	rec := s.createNote(admin, "  spaced  ")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	assert.Equal(t, "  spaced  ", created["title"])

	rec = s.createNote(admin, "   ")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
