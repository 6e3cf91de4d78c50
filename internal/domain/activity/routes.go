package activity

import (
	"github.com/go-chi/chi/v5"

	"github.com/cinevault/admin-api/internal/domain/rbac"
)

// Routes returns activity router. Callers mount it behind Auth and
// panel access.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.gate.RequirePermission(rbac.PermViewActivityLog)).Get("/", h.List)
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAllPermissions(rbac.PermViewActivityLog, rbac.PermExportAnalytics))
		r.Post("/export", h.Export)
		r.Get("/export", h.ExportLink)
	})

	return r
}
