package middleware

import (
	"fmt"
	"net/http"

	"github.com/cinevault/admin-api/internal/domain/rbac"
	"github.com/cinevault/admin-api/internal/pkg/logger"
	"github.com/cinevault/admin-api/internal/pkg/response"
)

// Gate builds permission middleware against a role registry
type Gate struct {
	registry *rbac.Registry
}

// NewGate creates a gate evaluating against registry
func NewGate(registry *rbac.Registry) *Gate {
	return &Gate{registry: registry}
}

// Registry returns the registry the gate evaluates against
func (g *Gate) Registry() *rbac.Registry {
	return g.registry
}

func (g *Gate) guard(check func(rbac.Role) bool, denied func(http.ResponseWriter), required []rbac.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := GetPrincipal(r.Context())
			if !ok {
				response.Unauthorized(w, "Authentication required")
				return
			}
			if !g.registry.Has(p.Role) {
				logger.LogWarn(r.Context(), "Principal carries an unregistered role")
				response.Forbidden(w, "Unknown role")
				return
			}
			if !check(p.Role) {
				logger.LogWarn(r.Context(), "Permission denied",
					"path", r.URL.Path,
					"required", required,
				)
				denied(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// mustCatalog rejects gate lists naming permissions outside the catalog
// when routes are built, not on the first request.
func mustCatalog(perms []rbac.Permission) {
	for _, p := range perms {
		if !p.IsValid() {
			panic(fmt.Errorf("middleware: gate: %w: %q", rbac.ErrUnknownPermission, string(p)))
		}
	}
}

func permissionDenied(required []rbac.Permission) func(http.ResponseWriter) {
	names := make([]string, len(required))
	for i, p := range required {
		names[i] = string(p)
	}
	return func(w http.ResponseWriter) { response.PermissionDenied(w, names) }
}

// RequirePanelAccess admits only roles on the admin panel allow-list
func (g *Gate) RequirePanelAccess() func(http.Handler) http.Handler {
	return g.guard(g.registry.CanAccessAdminPanel, func(w http.ResponseWriter) {
		response.Forbidden(w, "Your role cannot access the admin panel")
	}, nil)
}

// RequirePermission admits roles holding perm
func (g *Gate) RequirePermission(perm rbac.Permission) func(http.Handler) http.Handler {
	required := []rbac.Permission{perm}
	mustCatalog(required)
	return g.guard(func(role rbac.Role) bool {
		return g.registry.HasPermission(role, perm)
	}, permissionDenied(required), required)
}

// RequireAnyPermission admits roles holding at least one of perms
func (g *Gate) RequireAnyPermission(perms ...rbac.Permission) func(http.Handler) http.Handler {
	mustCatalog(perms)
	return g.guard(func(role rbac.Role) bool {
		return g.registry.HasAnyPermission(role, perms...)
	}, permissionDenied(perms), perms)
}

// RequireAllPermissions admits roles holding every one of perms
func (g *Gate) RequireAllPermissions(perms ...rbac.Permission) func(http.Handler) http.Handler {
	mustCatalog(perms)
	return g.guard(func(role rbac.Role) bool {
		return g.registry.HasAllPermissions(role, perms...)
	}, permissionDenied(perms), perms)
}
