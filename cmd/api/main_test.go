package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cinevault/admin-api/internal/config"
	"github.com/cinevault/admin-api/internal/domain/activity"
	"github.com/cinevault/admin-api/internal/domain/rbac"
	"github.com/cinevault/admin-api/internal/domain/roles"
	"github.com/cinevault/admin-api/internal/domain/staff"
	"github.com/cinevault/admin-api/internal/middleware"
	"github.com/cinevault/admin-api/internal/pkg/jwt"
)

func testRouter(t *testing.T) chi.Router {
	t.Helper()
	cfg := &config.Config{LocalStoragePath: t.TempDir(), AllowedOrigins: []string{"http://localhost:3000"}}
	reg := rbac.Default()
	jwtSvc := jwt.NewService("secret", time.Minute)
	gate := middleware.NewGate(reg)
	activitySvc := activity.NewService(nil, nil)
	staffSvc := staff.NewService(nil, nil, activitySvc, reg)

	return newRouter(cfg, routerDeps{
		jwt:      jwtSvc,
		gate:     gate,
		resolver: staffSvc,
		staff:    staff.NewHandler(staffSvc, jwtSvc, gate),
		activity: activity.NewHandler(activitySvc, gate),
		roles:    roles.NewHandler(roles.NewService(reg, nil, activitySvc), gate),
	})
}

func TestRouterMountsAdminRoutes(t *testing.T) {
	r := testRouter(t)

	want := map[string]bool{
		"GET /health":                                     false,
		"POST /api/admin/auth/login":                      false,
		"GET /api/admin/auth/me":                          false,
		"GET /api/admin/staff/":                           false,
		"PUT /api/admin/staff/{id}/role":                  false,
		"GET /api/admin/activity/":                        false,
		"POST /api/admin/activity/export":                 false,
		"GET /api/admin/roles/":                           false,
		"GET /api/admin/roles/{role}/can-manage/{target}": false,
		"PUT /api/admin/roles/{role}/permissions":         false,
		"GET /api/admin/permissions":                      false,
		"GET /exports/*":                                  false,
	}
	err := chi.Walk(r, func(method, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		if _, ok := want[method+" "+route]; ok {
			want[method+" "+route] = true
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	for route, found := range want {
		if !found {
			t.Errorf("route %s not registered", route)
		}
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := testRouter(t)

	for _, path := range []string{"/api/admin/staff", "/api/admin/activity", "/api/admin/roles", "/api/admin/permissions", "/exports/x.jsonl"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, rr.Code)
		}
	}
}

func TestHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
