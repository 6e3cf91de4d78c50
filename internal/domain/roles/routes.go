package roles

import (
	"github.com/go-chi/chi/v5"

	"github.com/cinevault/admin-api/internal/domain/rbac"
)

// Routes returns the role catalog router. Callers mount it behind Auth
// and panel access.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{role}", h.Get)
	r.Get("/{role}/can-manage/{target}", h.CanManage)

	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequirePermission(rbac.PermManageRoles))
		r.Get("/overrides", h.ListOverrides)
		r.Put("/{role}/permissions", h.UpdatePermissions)
		r.Delete("/{role}/permissions", h.ResetPermissions)
	})

	return r
}
