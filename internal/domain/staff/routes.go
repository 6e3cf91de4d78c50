package staff

import (
	"github.com/go-chi/chi/v5"

	"github.com/cinevault/admin-api/internal/domain/rbac"
	"github.com/cinevault/admin-api/internal/middleware"
)

// AuthRoutes returns the staff authentication router
func (h *Handler) AuthRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(h.jwtSvc, h.service))
		r.Get("/me", h.Me)
	})

	return r
}

// Routes returns the staff management router. Callers mount it behind
// Auth and panel access.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequirePermission(rbac.PermManageAdmins))
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	r.With(h.gate.RequirePermission(rbac.PermAssignRoles)).Put("/{id}/role", h.ChangeRole)

	return r
}
