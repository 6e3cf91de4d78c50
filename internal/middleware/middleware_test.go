package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cinevault/admin-api/internal/domain/rbac"
	"github.com/cinevault/admin-api/internal/pkg/jwt"
)

type stubResolver struct {
	principal *Principal
	err       error
}

func (s stubResolver) ResolvePrincipal(ctx context.Context, id uuid.UUID) (*Principal, error) {
	return s.principal, s.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func tokenFor(t *testing.T, svc *jwt.Service, role rbac.Role) string {
	t.Helper()
	token, _, err := svc.GenerateAccessToken(uuid.New(), "staff@cinevault.tv", role)
	if err != nil {
		t.Fatalf("token gen failed: %v", err)
	}
	return token
}

func TestAuthMiddlewareAllowsValidAccessToken(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute)
	token := tokenFor(t, jwtSvc, rbac.RoleModerator)

	var seen *Principal
	protected := Auth(jwtSvc, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetPrincipal(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if seen == nil || seen.Role != rbac.RoleModerator {
		t.Fatalf("principal not stored: %+v", seen)
	}
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	protected := Auth(jwt.NewService("secret", time.Minute), nil)(okHandler())
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareUsesResolvedRole(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute)
	token := tokenFor(t, jwtSvc, rbac.RoleSuperAdmin)

	demoted := &Principal{ID: uuid.New(), Role: rbac.RoleAnalyst}
	gate := NewGate(rbac.Default())
	protected := Auth(jwtSvc, stubResolver{principal: demoted})(gate.RequirePermission(rbac.PermManageRoles)(okHandler()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 after demotion, got %d", w.Code)
	}
}

func TestAuthMiddlewareResolverErrors(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute)
	token := tokenFor(t, jwtSvc, rbac.RoleTechAdmin)

	tests := []struct {
		err  error
		want int
	}{
		{ErrPrincipalNotFound, http.StatusUnauthorized},
		{ErrPrincipalInactive, http.StatusForbidden},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		protected := Auth(jwtSvc, stubResolver{err: tt.err})(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, req)
		if w.Code != tt.want {
			t.Fatalf("%v: expected %d, got %d", tt.err, tt.want, w.Code)
		}
	}
}

func serveAs(role rbac.Role, mw func(http.Handler) http.Handler) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithPrincipal(req.Context(), &Principal{ID: uuid.New(), Role: role}))
	w := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(w, req)
	return w.Code
}

func TestGateDecisions(t *testing.T) {
	gate := NewGate(rbac.Default())

	tests := []struct {
		name string
		role rbac.Role
		mw   func(http.Handler) http.Handler
		want int
	}{
		{"panel denies viewer", rbac.RoleViewer, gate.RequirePanelAccess(), http.StatusForbidden},
		{"panel admits analyst", rbac.RoleAnalyst, gate.RequirePanelAccess(), http.StatusOK},
		{"moderator bans", rbac.RoleModerator, gate.RequirePermission(rbac.PermBanUsers), http.StatusOK},
		{"finance cannot ban", rbac.RoleFinance, gate.RequirePermission(rbac.PermBanUsers), http.StatusForbidden},
		{"finance any", rbac.RoleFinance, gate.RequireAnyPermission(rbac.PermViewRevenue, rbac.PermBanUsers), http.StatusOK},
		{"finance all", rbac.RoleFinance, gate.RequireAllPermissions(rbac.PermViewRevenue, rbac.PermBanUsers), http.StatusForbidden},
		{"super all", rbac.RoleSuperAdmin, gate.RequireAllPermissions(rbac.PermViewRevenue, rbac.PermBanUsers), http.StatusOK},
		{"empty any denies", rbac.RoleSuperAdmin, gate.RequireAnyPermission(), http.StatusForbidden},
		{"empty all admits", rbac.RoleViewer, gate.RequireAllPermissions(), http.StatusOK},
		{"unknown role", rbac.Role("ghost"), gate.RequirePermission(rbac.PermViewFreeContent), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := serveAs(tt.role, tt.mw); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestGateRejectsUnknownPermissionAtBuild(t *testing.T) {
	gate := NewGate(rbac.Default())
	builders := map[string]func(){
		"single": func() { gate.RequirePermission(rbac.Permission("ban_user")) },
		"any":    func() { gate.RequireAnyPermission(rbac.PermBanUsers, rbac.Permission("ban_user")) },
		"all":    func() { gate.RequireAllPermissions(rbac.Permission("ban_user")) },
	}
	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			defer func() {
				rec := recover()
				err, ok := rec.(error)
				if !ok || !errors.Is(err, rbac.ErrUnknownPermission) {
					t.Fatalf("expected ErrUnknownPermission panic, got %v", rec)
				}
			}()
			build()
		})
	}
}

func TestGateWithoutPrincipal(t *testing.T) {
	gate := NewGate(rbac.Default())
	w := httptest.NewRecorder()
	gate.RequirePermission(rbac.PermBanUsers)(okHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRecoverTurnsPanicInto500(t *testing.T) {
	h := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rbac.HasPermission("ghost", rbac.PermBanUsers)
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	h := RequestID(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("expected echoed id, got %q", got)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if _, err := uuid.Parse(w.Header().Get("X-Request-ID")); err != nil {
		t.Fatalf("expected generated uuid, got %q", w.Header().Get("X-Request-ID"))
	}
}

func TestSecureHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	SecureHeaders(false)(okHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 in development, got %d", w.Code)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("X-Frame-Options = %q", got)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options = %q", got)
	}
}
